package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

func TestWriteSVG(t *testing.T) {
	b := board.NewBoard()
	var buf bytes.Buffer
	if err := WriteSVG(&buf, b, DefaultOptions()); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	out := buf.String()

	// One circle per cell.
	if n := strings.Count(out, "<circle"); n != board.NumCells {
		t.Errorf("found %d circles, want %d", n, board.NumCells)
	}
	if n := strings.Count(out, `fill="`+blackFill+`"`); n != board.PiecesPerSide {
		t.Errorf("found %d black marbles, want %d", n, board.PiecesPerSide)
	}
	if !strings.Contains(out, ">A<") || !strings.Contains(out, ">9<") {
		t.Error("labels missing")
	}

	// The document must be well-formed XML.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
}

func TestWriteSVGHighlightsLastMove(t *testing.T) {
	b := board.NewBoard()
	m, err := board.ParseMove("A1,B2", b)
	if err != nil {
		t.Fatalf("ParseMove failed: %v", err)
	}
	b.MakeMove(m)

	opts := DefaultOptions()
	opts.LastMove = m
	var buf bytes.Buffer
	if err := WriteSVG(&buf, b, opts); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	if !strings.Contains(buf.String(), highlight) {
		t.Error("last move not highlighted")
	}
}

func TestWritePNG(t *testing.T) {
	opts := DefaultOptions()
	opts.CellSize = 24

	var buf bytes.Buffer
	if err := WritePNG(&buf, board.NewBoard(), opts); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}

	l := newLayout(opts.CellSize)
	w, h := Size(opts)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("image is %v, want %dx%d", img.Bounds(), w, h)
	}

	// A1 holds a black marble: its center must be dark.
	x, y := l.center(board.Pos{X: 0, Y: 0})
	r, g, bl, a := img.At(int(x), int(y)).RGBA()
	if a == 0 || r > 0x4000 || g > 0x4000 || bl > 0x4000 {
		t.Errorf("A1 center = %v, want a dark opaque pixel", img.At(int(x), int(y)))
	}
	// I9 holds a white marble.
	x, y = l.center(board.Pos{X: 8, Y: 8})
	r, g, bl, _ = img.At(int(x), int(y)).RGBA()
	if r < 0xc000 || g < 0xc000 || bl < 0xc000 {
		t.Errorf("I9 center = %v, want a light pixel", img.At(int(x), int(y)))
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	b := board.NewBoard()

	for _, name := range []string{"board.svg", "board.png"} {
		path := filepath.Join(dir, name)
		if err := SaveFile(path, b, DefaultOptions()); err != nil {
			t.Fatalf("SaveFile(%s) failed: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	if err := SaveFile(filepath.Join(dir, "board.gif"), b, DefaultOptions()); err == nil {
		t.Error("SaveFile accepted an unsupported extension")
	}
}

func TestLayoutCellsInsideImage(t *testing.T) {
	l := newLayout(DefaultOptions().CellSize)
	for _, p := range board.AllPositions() {
		x, y := l.center(p)
		if x < l.cell/2 || y < l.cell/2 || x > float64(l.width)-l.cell/2 || y > float64(l.height)-l.cell/2 {
			t.Errorf("%s center (%.0f, %.0f) too close to the edge of %dx%d", p, x, y, l.width, l.height)
		}
	}
}
