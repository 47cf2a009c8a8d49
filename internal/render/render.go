// Package render draws board diagrams as SVG and PNG.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

// Options controls diagram layout.
type Options struct {
	// CellSize is the distance in pixels between neighbouring cell centers.
	CellSize int

	// RenderScale supersamples PNG output before downscaling.
	RenderScale float64

	// Labels draws row letters and diagonal numbers.
	Labels bool

	// LastMove, if valid, is highlighted.
	LastMove board.Move
}

// DefaultOptions returns the default diagram options.
func DefaultOptions() Options {
	return Options{
		CellSize:    48,
		RenderScale: 2,
		Labels:      true,
	}
}

// Palette
const (
	boardFill    = "#b5835a"
	boardStroke  = "#6b4226"
	holeFill     = "#8c6239"
	blackFill    = "#1e1e1e"
	whiteFill    = "#f2f0e6"
	marbleStroke = "#3a3a3a"
	highlight    = "#e0b32c"
	labelFill    = "#2b2b2b"
)

// layout maps board cells to pixel coordinates.
type layout struct {
	cell   float64
	margin float64
	width  int
	height int
}

func newLayout(cellSize int) layout {
	if cellSize < 8 {
		cellSize = 8
	}
	cell := float64(cellSize)
	margin := cell
	return layout{
		cell:   cell,
		margin: margin,
		width:  int(math.Ceil(2*margin + 9*cell)),
		height: int(math.Ceil(2*margin + 8*cell*math.Sqrt(3)/2 + cell)),
	}
}

// Size returns the pixel dimensions of a diagram drawn with opts.
func Size(opts Options) (width, height int) {
	l := newLayout(opts.CellSize)
	return l.width, l.height
}

// center returns the pixel center of p. Row A is drawn at the bottom.
func (l layout) center(p board.Pos) (float64, float64) {
	u := float64(p.X) - float64(p.Y)/2 + 2
	x := l.margin + l.cell/2 + u*l.cell
	y := l.margin + l.cell/2 + float64(board.BoardSize-1-p.Y)*l.cell*math.Sqrt(3)/2
	return x, y
}

// outline returns the vertices of the hexagonal board edge.
func (l layout) outline() ([]int, []int) {
	corners := []board.Pos{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 8, Y: 4}, {X: 8, Y: 8}, {X: 4, Y: 8}, {X: 0, Y: 4}}
	cx, cy := l.center(board.Pos{X: 4, Y: 4})
	xs := make([]int, len(corners))
	ys := make([]int, len(corners))
	for i, p := range corners {
		x, y := l.center(p)
		dx, dy := x-cx, y-cy
		n := math.Hypot(dx, dy)
		grow := (n + l.cell*0.75) / n
		xs[i] = int(math.Round(cx + dx*grow))
		ys[i] = int(math.Round(cy + dy*grow))
	}
	return xs, ys
}

// labelPositions returns the text and pixel position of each row letter
// and diagonal number.
func (l layout) labelPositions() []label {
	var labels []label
	for y := 0; y < board.BoardSize; y++ {
		first := board.Pos{X: max(0, y-4), Y: y}
		x, py := l.center(first)
		labels = append(labels, label{string(rune('A' + y)), x - l.cell*0.95, py})
	}
	for x := 0; x < board.BoardSize; x++ {
		last := board.Pos{X: x, Y: min(board.BoardSize-1, x+4)}
		px, py := l.center(last)
		labels = append(labels, label{string(rune('1' + x)), px + l.cell*0.45, py - l.cell*0.75})
	}
	return labels
}

type label struct {
	text string
	x, y float64
}

// SaveFile writes a diagram to path; the extension selects SVG or PNG.
func SaveFile(path string, b *board.Board, opts Options) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".svg" && ext != ".png" {
		return errors.Errorf("unsupported diagram format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create diagram")
	}

	if ext == ".svg" {
		err = WriteSVG(f, b, opts)
	} else {
		err = WritePNG(f, b, opts)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close diagram")
	}
	return err
}

// WritePNG rasterizes the diagram at RenderScale and downsamples it.
func WritePNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := Image(b, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// Image renders the diagram to an RGBA image.
func Image(b *board.Board, opts Options) (*image.RGBA, error) {
	scale := opts.RenderScale
	if scale < 1 {
		scale = 1
	}
	l := newLayout(opts.CellSize)

	// Labels are drawn on the final image; the rasterizer has no text support.
	svgOpts := opts
	svgOpts.Labels = false
	var buf bytes.Buffer
	if err := WriteSVG(&buf, b, svgOpts); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}

	rw, rh := int(float64(l.width)*scale), int(float64(l.height)*scale)
	icon.SetTarget(0, 0, float64(rw), float64(rh))
	hi := image.NewRGBA(image.Rect(0, 0, rw, rh))
	scanner := rasterx.NewScannerGV(rw, rh, hi, hi.Bounds())
	raster := rasterx.NewDasher(rw, rh, scanner)
	icon.Draw(raster, 1.0)

	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	xdraw.CatmullRom.Scale(img, img.Bounds(), hi, hi.Bounds(), xdraw.Over, nil)

	if opts.Labels {
		drawLabels(img, l)
	}
	return img, nil
}

// drawLabels writes the coordinate labels with the fixed 7x13 face.
func drawLabels(img *image.RGBA, l layout) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x2b, 0x2b, 0x2b, 0xff}),
		Face: basicfont.Face7x13,
	}
	for _, lb := range l.labelPositions() {
		width := d.MeasureString(lb.text).Round()
		d.Dot = fixed.P(int(lb.x)-width/2, int(lb.y)+5)
		d.DrawString(lb.text)
	}
}
