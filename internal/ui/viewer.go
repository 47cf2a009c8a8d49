// Package ui shows engine games in a window using Ebitengine.
package ui

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/match"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/render"
)

// Layout constants
const (
	StatusHeight = 64
	margin       = 12
)

var (
	background = color.RGBA{0x2b, 0x2b, 0x2b, 0xff}
	statusText = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

// frame is the state of the game after one move.
type frame struct {
	ply   int
	move  board.Move
	board *board.Board
}

// Viewer plays one match at a time in the background and draws every
// position it reaches. N starts a new game, Space pauses, Escape quits.
type Viewer struct {
	newMatch func() *match.Match
	start    string
	opts     render.Options

	frames chan frame
	done   chan match.Result

	cancel context.CancelFunc
	wg     sync.WaitGroup

	current  frame
	image    *ebiten.Image
	result   *match.Result
	paused   bool
	width    int
	height   int
	scale    float64
	imageErr error
}

// NewViewer creates a viewer. newMatch must return a match with fresh
// players; its OnMove hook is replaced by the viewer.
func NewViewer(newMatch func() *match.Match, start string, opts render.Options) (*Viewer, error) {
	if start == "" {
		start = board.StartNotation
	}
	b, err := board.ParseNotation(start)
	if err != nil {
		return nil, err
	}

	w, h := render.Size(opts)
	v := &Viewer{
		newMatch: newMatch,
		start:    start,
		opts:     opts,
		width:    w + 2*margin,
		height:   h + 2*margin + StatusHeight,
		scale:    1,
	}
	v.current = frame{board: b}
	return v, nil
}

// Size returns the window size in device-independent pixels.
func (v *Viewer) Size() (int, int) {
	return v.width, v.height
}

// NewGame cancels the running match, if any, and starts another.
func (v *Viewer) NewGame() {
	v.Stop()

	b, _ := board.ParseNotation(v.start)
	v.current = frame{board: b.Copy()}
	v.image = nil
	v.result = nil
	v.paused = false

	// Buffered so a finished game never blocks on a closed window.
	frames := make(chan frame, 1)
	done := make(chan match.Result, 1)
	v.frames, v.done = frames, done

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel

	m := v.newMatch()
	m.OnMove = func(ply int, mv board.Move, b *board.Board) {
		select {
		case frames <- frame{ply: ply, move: mv, board: b.Copy()}:
		case <-ctx.Done():
		}
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		res, err := m.Play(ctx, b)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("match failed")
			}
			return
		}
		done <- res
	}()
}

// Stop cancels the running match and waits for it to return.
func (v *Viewer) Stop() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.wg.Wait()
}

// Update handles input and picks up the next position.
func (v *Viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		v.Stop()
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		v.NewGame()
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.paused = !v.paused
	}

	if v.paused {
		return nil
	}

	select {
	case f := <-v.frames:
		v.current = f
		v.image = nil
	default:
		// Still thinking
	}

	if v.result == nil && len(v.frames) == 0 {
		select {
		case res := <-v.done:
			v.result = &res
			log.Info().Str("result", res.String()).Msg("game finished")
		default:
		}
	}
	return nil
}

// Draw renders the current position and the status line.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if v.image == nil && v.imageErr == nil {
		opts := scaledOptions(v.opts, v.scale)
		opts.LastMove = v.current.move
		img, err := render.Image(v.current.board, opts)
		if err != nil {
			v.imageErr = err
			log.Error().Err(err).Msg("failed to render board")
		} else {
			v.image = ebiten.NewImageFromImage(img)
		}
	}
	if v.image != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(margin*v.scale, margin*v.scale)
		screen.DrawImage(v.image, op)
	}

	y := float64(v.height-StatusHeight) * v.scale
	v.drawText(screen, v.title(), boldFace, y)
	v.drawText(screen, v.status(), regularFace, y+titleFontSize*1.6*v.scale)
}

func (v *Viewer) drawText(screen *ebiten.Image, s string, face *text.GoTextFace, y float64) {
	if face == nil {
		return
	}
	f := *face
	f.Size *= v.scale
	op := &text.DrawOptions{}
	op.GeoM.Translate(margin*v.scale, y)
	op.ColorScale.ScaleWithColor(statusText)
	text.Draw(screen, s, &f, op)
}

// title announces the result, or the last move while the game runs.
func (v *Viewer) title() string {
	if v.result != nil {
		return v.result.String()
	}
	if !v.current.move.IsValid() {
		return "New game"
	}
	return fmt.Sprintf("%d. %s plays %s", v.current.ply, v.current.move.Color, v.current.move)
}

func (v *Viewer) status() string {
	b := v.current.board
	s := fmt.Sprintf("Captured: white %d  black %d    %s to move", b.CapturedWhite, b.CapturedBlack, b.Turn)
	if v.paused {
		s += "    (paused)"
	}
	return s
}

// Layout returns the screen size scaled by the device scale factor.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale < 1.0 {
		scale = 1.0
	}
	if scale != v.scale {
		v.scale = scale
		v.image = nil
	}
	return int(float64(v.width) * v.scale), int(float64(v.height) * v.scale)
}

func scaledOptions(opts render.Options, scale float64) render.Options {
	opts.CellSize = int(float64(opts.CellSize) * scale)
	return opts
}
