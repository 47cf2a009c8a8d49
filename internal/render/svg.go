package render

import (
	"fmt"
	"io"
	"math"

	"github.com/ajstarks/svgo"
	"github.com/pkg/errors"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

// WriteSVG writes the board as an SVG document.
func WriteSVG(w io.Writer, b *board.Board, opts Options) error {
	l := newLayout(opts.CellSize)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	canvas.Startview(l.width, l.height, 0, 0, l.width, l.height)
	canvas.Title("Abalone " + b.Notation())

	xs, ys := l.outline()
	canvas.Polygon(xs, ys, fill(boardFill), stroke(boardStroke, 3))

	highlighted := make(map[board.Pos]bool)
	if opts.LastMove.IsValid() {
		for _, p := range opts.LastMove.Cells() {
			highlighted[p] = true
		}
	}

	r := int(math.Round(l.cell * 0.42))
	for _, p := range board.AllPositions() {
		x, y := l.center(p)
		cx, cy := int(math.Round(x)), int(math.Round(y))

		switch b.At(p) {
		case board.Black:
			canvas.Circle(cx, cy, r, fill(blackFill), stroke(marbleStroke, 1))
		case board.White:
			canvas.Circle(cx, cy, r, fill(whiteFill), stroke(marbleStroke, 1))
		default:
			canvas.Circle(cx, cy, r*3/4, fill(holeFill))
		}
		if highlighted[p] {
			canvas.Circle(cx, cy, r+2, `fill="none"`, stroke(highlight, 3))
		}
	}

	if opts.Labels {
		for _, lb := range l.labelPositions() {
			canvas.Text(int(lb.x), int(lb.y)+5, lb.text,
				`text-anchor="middle"`, `font-family="sans-serif"`,
				fmt.Sprintf(`font-size="%d"`, max(8, int(l.cell/3))), fill(labelFill))
		}
	}

	canvas.End()
	return errors.Wrap(ew.err, "write svg")
}

func fill(c string) string {
	return `fill="` + c + `"`
}

func stroke(c string, width int) string {
	return fmt.Sprintf(`stroke="%s" stroke-width="%d"`, c, width)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
