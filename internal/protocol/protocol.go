// Package protocol implements a line-based text protocol for driving the
// engine from another program or a terminal.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/render"
)

// Name and author reported by the "abalone" command.
const (
	EngineName   = "Abalone-AI"
	EngineAuthor = "Abalone-AI developers"
)

// Protocol is a protocol session. It owns the current board and the move
// history used by "undo".
type Protocol struct {
	engine *engine.Engine
	board  *board.Board
	moves  []board.Move

	// Limits used by "go" when no option overrides them.
	limits engine.SearchLimits

	render    render.Options
	outputDir string // relative diagram paths are resolved here
	out       *bufio.Writer
}

// New creates a protocol session writing responses to out.
func New(eng *engine.Engine, out io.Writer) *Protocol {
	return &Protocol{
		engine: eng,
		board:  board.NewBoard(),
		limits: engine.DifficultySettings[eng.Difficulty()],
		render: render.DefaultOptions(),
		out:    bufio.NewWriter(out),
	}
}

// SetLimits sets the default limits for "go".
func (p *Protocol) SetLimits(limits engine.SearchLimits) {
	p.limits = limits
}

// SetRenderOptions sets the options used by "svg" and "png".
func (p *Protocol) SetRenderOptions(opts render.Options) {
	p.render = opts
}

// SetOutputDir sets the directory for relative "svg" and "png" paths.
func (p *Protocol) SetOutputDir(dir string) {
	p.outputDir = dir
}

// Board returns the current board.
func (p *Protocol) Board() *board.Board {
	return p.board
}

// Run reads commands from in until "quit", end of input or ctx is done.
func (p *Protocol) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := p.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line and reports whether it was "quit".
func (p *Protocol) Execute(ctx context.Context, line string) bool {
	defer p.out.Flush()

	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	log.Debug().Str("cmd", cmd).Strs("args", args).Msg("protocol command")

	var err error
	switch cmd {
	case "abalone":
		p.handleAbalone()
	case "isready":
		p.println("readyok")
	case "newgame":
		p.handleNewGame()
	case "position":
		err = p.handlePosition(args)
	case "go":
		err = p.handleGo(ctx, args)
	case "move":
		err = p.handleMove(args)
	case "undo":
		err = p.handleUndo()
	case "moves":
		p.handleMoves()
	case "d":
		p.println(p.board.String())
	case "eval":
		p.handleEval()
	case "perft":
		err = p.handlePerft(args)
	case "svg", "png":
		err = p.handleDiagram(cmd, args)
	case "quit":
		return true
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		p.println("error " + err.Error())
	}
	return false
}

func (p *Protocol) println(s string) {
	p.out.WriteString(s)
	p.out.WriteByte('\n')
}

func (p *Protocol) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// handleAbalone responds to the "abalone" identification command.
func (p *Protocol) handleAbalone() {
	p.println("id name " + EngineName)
	p.println("id author " + EngineAuthor)
	p.printf("option depth default %d min 1 max %d\n", p.limits.Depth, engine.MaxDepth)
	p.printf("option width default %d min 0\n", p.limits.MaxCandidates)
	p.println("ok")
}

// handleNewGame resets the engine for a new game.
func (p *Protocol) handleNewGame() {
	p.engine.Clear()
	p.board = board.NewBoard()
	p.moves = nil
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves A1,B2 I5,H5
//   - position <notation>
//   - position <notation> moves A1,B2
//
// The current position is kept if any part fails to parse.
func (p *Protocol) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing startpos or notation")
	}

	var b *board.Board
	if args[0] == "startpos" {
		b = board.NewBoard()
	} else {
		var err error
		if b, err = board.ParseNotation(args[0]); err != nil {
			return err
		}
	}

	rest := args[1:]
	if len(rest) > 0 && rest[0] != "moves" {
		return fmt.Errorf("position: unexpected %q", rest[0])
	}

	var moves []board.Move
	if len(rest) > 1 {
		for _, s := range rest[1:] {
			if b.IsGameOver() {
				return fmt.Errorf("position: move %s after the game ended", s)
			}
			m, err := board.ParseMove(s, b)
			if err != nil {
				return err
			}
			b.MakeMove(m)
			moves = append(moves, m)
		}
	}

	p.board = b
	p.moves = moves
	return nil
}

// parseGoOptions parses "go" command arguments over the session defaults.
func (p *Protocol) parseGoOptions(args []string) (engine.SearchLimits, error) {
	limits := p.limits
	if limits.Depth == 0 {
		limits = engine.DifficultySettings[engine.Medium]
	}
	limits.Random = false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth", "width":
			if i+1 >= len(args) {
				return limits, fmt.Errorf("go: %s needs a value", args[i])
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return limits, fmt.Errorf("go: invalid %s %q", args[i], args[i+1])
			}
			if args[i] == "depth" {
				limits.Depth = n
			} else {
				limits.MaxCandidates = n
			}
			i++
		case "random":
			limits.Random = true
		default:
			return limits, fmt.Errorf("go: unknown option %q", args[i])
		}
	}

	if !limits.Random && (limits.Depth < 1 || limits.Depth > engine.MaxDepth) {
		return limits, fmt.Errorf("%w: %d (want 1..%d)", engine.ErrDepthOutOfRange, limits.Depth, engine.MaxDepth)
	}
	if limits.MaxCandidates < 0 {
		return limits, fmt.Errorf("go: width must not be negative")
	}
	return limits, nil
}

// handleGo searches the current position and prints the best move.
// The board is left unchanged; use "move" to play the result.
func (p *Protocol) handleGo(ctx context.Context, args []string) error {
	limits, err := p.parseGoOptions(args)
	if err != nil {
		return err
	}
	if p.board.IsGameOver() {
		return errors.New("go: the game is over")
	}

	p.engine.OnInfo = p.sendInfo
	defer func() { p.engine.OnInfo = nil }()

	move, err := p.engine.SearchWithLimits(ctx, p.board.Copy(), limits)
	if err != nil {
		return err
	}
	if !move.IsValid() {
		p.println("bestmove none")
		return nil
	}
	p.println("bestmove " + move.String())
	return nil
}

// sendInfo outputs search info.
func (p *Protocol) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.ScoreToString(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if info.HitRate > 0 {
		parts = append(parts, fmt.Sprintf("tthit %.1f", info.HitRate))
	}
	if info.NoMoveLeaves > 0 {
		parts = append(parts, fmt.Sprintf("nomoves %d", info.NoMoveLeaves))
	}

	p.println("info " + strings.Join(parts, " "))
}

// handleMove plays a move on the current board.
func (p *Protocol) handleMove(args []string) error {
	if len(args) != 1 {
		return errors.New("move: expected one move")
	}
	if p.board.IsGameOver() {
		return errors.New("move: the game is over")
	}
	m, err := board.ParseMove(args[0], p.board)
	if err != nil {
		return err
	}
	p.board.MakeMove(m)
	p.moves = append(p.moves, m)

	if winner, over := p.board.Winner(); over {
		p.println("gameover " + winner.String())
	}
	return nil
}

// handleUndo takes back the last move.
func (p *Protocol) handleUndo() error {
	if len(p.moves) == 0 {
		return errors.New("undo: no move to take back")
	}
	last := p.moves[len(p.moves)-1]
	p.moves = p.moves[:len(p.moves)-1]
	p.board.UnmakeMove(last)
	return nil
}

// handleMoves lists the legal moves, best-ordered first.
func (p *Protocol) handleMoves() {
	moves := board.GenerateMoves(p.board)
	strs := make([]string, 0, len(moves))
	for i := len(moves) - 1; i >= 0; i-- {
		strs = append(strs, moves[i].String())
	}
	p.println("moves " + strings.Join(strs, " "))
}

// handleEval prints the static evaluation.
func (p *Protocol) handleEval() {
	p.printf("eval %d black %d captured white %d black %d\n",
		p.engine.Evaluate(p.board), engine.EvaluateAbsolute(p.board),
		p.board.CapturedWhite, p.board.CapturedBlack)
}

// handlePerft runs a perft test.
func (p *Protocol) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		var err error
		if depth, err = strconv.Atoi(args[0]); err != nil || depth < 1 || depth > engine.MaxDepth {
			return fmt.Errorf("perft: invalid depth %q", args[0])
		}
	}

	start := time.Now()
	nodes := p.engine.Perft(p.board, depth)
	elapsed := time.Since(start)

	p.printf("nodes %d\n", nodes)
	p.printf("time %d\n", elapsed.Milliseconds())
	if elapsed > 0 {
		p.printf("nps %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}

// handleDiagram writes the board as an SVG or PNG file.
func (p *Protocol) handleDiagram(kind string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s: expected a file name", kind)
	}
	path := args[0]
	if !strings.HasSuffix(strings.ToLower(path), "."+kind) {
		path += "." + kind
	}
	if p.outputDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.outputDir, path)
	}

	opts := p.render
	if len(p.moves) > 0 {
		opts.LastMove = p.moves[len(p.moves)-1]
	}
	if err := render.SaveFile(path, p.board, opts); err != nil {
		return err
	}
	p.println("saved " + path)
	return nil
}
