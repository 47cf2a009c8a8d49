package board

import (
	"fmt"
	"strings"
)

// PiecesPerSide is the number of marbles each side starts with.
const PiecesPerSide = 14

// WinningCaptures is the number of opposing marbles needed to win.
const WinningCaptures = 6

// Board is a complete Abalone position.
//
// The board is mutated in place by MakeMove and restored by UnmakeMove.
// Every MakeMove must be paired with an UnmakeMove of the same move before
// an earlier move is undone. A Board is not safe for concurrent use; use
// Copy to hand an independent board to another goroutine.
type Board struct {
	cells [BoardSize][BoardSize]Cell

	// Turn is the side to move.
	Turn Color

	// CapturedWhite and CapturedBlack count marbles of that color pushed off.
	CapturedWhite int
	CapturedBlack int

	// Hash is the XOR of the Zobrist keys of every occupied cell.
	// The side to move is not part of it; see Key.
	Hash uint64
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, _ := ParseNotation(StartNotation)
	return b
}

// Copy returns an independent deep copy of the board.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// At returns the color of the cell at p. Invalid positions read as Empty.
func (b *Board) At(p Pos) Color {
	if !p.Valid() {
		return Empty
	}
	return b.cells[p.X][p.Y].Color
}

// Captured returns how many marbles of color c have been pushed off.
func (b *Board) Captured(c Color) int {
	if c == White {
		return b.CapturedWhite
	}
	return b.CapturedBlack
}

// PieceCount returns the number of marbles of color c on the board.
func (b *Board) PieceCount(c Color) int {
	n := 0
	for _, p := range allPositions {
		if b.cells[p.X][p.Y].Color == c {
			n++
		}
	}
	return n
}

// RunLength returns the number of consecutive same-color cells (0..2)
// starting one step from p in direction d. Stale entries are recomputed
// and cached.
func (b *Board) RunLength(p Pos, d Direction) int {
	cell := &b.cells[p.X][p.Y]
	if cell.dirty&(1<<d) == 0 {
		return int(cell.runs[d])
	}
	return b.updateRun(p, d)
}

// updateRun recomputes one run-length entry and clears its dirty bit.
// Empty cells count consecutive empty cells, which the broadside
// generator relies on.
func (b *Board) updateRun(p Pos, d Direction) int {
	cell := &b.cells[p.X][p.Y]
	run := int8(0)
	if near := p.Add(d); near.Valid() && b.cells[near.X][near.Y].Color == cell.Color {
		run = 1
		if far := p.Step(d, 2); far.Valid() && b.cells[far.X][far.Y].Color == cell.Color {
			run = 2
		}
	}
	cell.runs[d] = run
	cell.dirty &^= 1 << d
	return int(run)
}

// markDirty invalidates every cached run-length that can depend on the
// occupancy of p, judged against p's current color. Callers invoke it with
// the color before and after a change.
func (b *Board) markDirty(p Pos) {
	origin := &b.cells[p.X][p.Y]
	origin.dirty = allDirty
	c := origin.Color

	for _, d := range Directions {
		near := p.Step(d, -1)
		if !near.Valid() {
			continue
		}
		if nc := b.cells[near.X][near.Y].Color; nc == c || nc == Empty {
			b.cells[near.X][near.Y].dirty |= 1 << d
		}

		far := p.Step(d, -2)
		if !far.Valid() {
			continue
		}
		if fc := b.cells[far.X][far.Y].Color; fc == c || fc == Empty {
			b.cells[far.X][far.Y].dirty |= 1 << d
		}
	}
}

// updateHash toggles the key of color c at p.
func (b *Board) updateHash(p Pos, c Color) {
	b.Hash ^= zobristKey(p, c)
}

// setColor changes the occupancy of p, keeping the hash and the run-length
// cache consistent.
func (b *Board) setColor(p Pos, c Color) {
	old := b.cells[p.X][p.Y].Color
	if old == c {
		return
	}
	b.markDirty(p)
	if old != Empty {
		b.updateHash(p, old)
	}
	b.cells[p.X][p.Y].Color = c
	if c != Empty {
		b.updateHash(p, c)
	}
	b.markDirty(p)
}

// refreshRuns recomputes every run-length entry (cold start).
func (b *Board) refreshRuns() {
	for _, p := range allPositions {
		for _, d := range Directions {
			b.updateRun(p, d)
		}
	}
}

// Winner returns the winning color, if a side has lost six marbles.
func (b *Board) Winner() (Color, bool) {
	if b.CapturedWhite >= WinningCaptures {
		return Black, true
	}
	if b.CapturedBlack >= WinningCaptures {
		return White, true
	}
	return Empty, false
}

// IsGameOver returns true once either side has lost six marbles.
func (b *Board) IsGameOver() bool {
	_, over := b.Winner()
	return over
}

// String returns a visual representation of the board, top row first.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for y := BoardSize - 1; y >= 0; y-- {
		indent := y - 4
		if indent < 0 {
			indent = -indent
		}
		sb.WriteString(fmt.Sprintf("%c ", 'A'+y))
		sb.WriteString(strings.Repeat(" ", indent))
		for x := 0; x < BoardSize; x++ {
			p := Pos{x, y}
			if !p.Valid() {
				continue
			}
			sb.WriteByte(b.cells[x][y].Color.Char())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Side to move: %s\n", b.Turn))
	sb.WriteString(fmt.Sprintf("Captured: white %d, black %d\n", b.CapturedWhite, b.CapturedBlack))
	sb.WriteString(fmt.Sprintf("Hash: %016x\n", b.Hash))
	return sb.String()
}
