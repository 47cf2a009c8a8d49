package board

import (
	"errors"
	"fmt"
	"strings"
)

// CaptureScore is the ordering score of any move that pushes a marble off.
const CaptureScore = 100

// ErrIllegalMove is returned when a move string does not match a legal move.
var ErrIllegalMove = errors.New("illegal move")

// Move describes a candidate move.
//
// Origin is the moving marble nearest the destination: the front of the
// line for in-line moves and one end of the line for broadside moves.
// PullDir is Dir.Opposite() for in-line moves; for broadside moves it is
// the direction along which the line extends from Origin. Pulled counts
// the own marbles participating beyond Origin and Pushed the opposing
// marbles displaced.
type Move struct {
	Color    Color
	Origin   Pos
	Dir      Direction
	PullDir  Direction
	Pulled   int
	Pushed   int
	Captures bool

	// Score orders moves for search; it is not a position evaluation.
	Score int
}

// NoMove represents an invalid or null move.
var NoMove = Move{}

// newInlineMove creates a non-pushing in-line move.
func newInlineMove(c Color, origin Pos, d Direction, pulled int) Move {
	m := Move{Color: c, Origin: origin, Dir: d, PullDir: d.Opposite(), Pulled: pulled}
	m.Score = m.evaluate()
	return m
}

// newPushMove creates an in-line move into opposing marbles.
func newPushMove(c Color, origin Pos, d Direction, pulled, pushed int, captures bool) Move {
	m := Move{Color: c, Origin: origin, Dir: d, PullDir: d.Opposite(), Pulled: pulled, Pushed: pushed, Captures: captures}
	m.Score = m.evaluate()
	return m
}

// newBroadsideMove creates a sideways move of a line extending along pull.
func newBroadsideMove(c Color, origin Pos, d, pull Direction, pulled int) Move {
	m := Move{Color: c, Origin: origin, Dir: d, PullDir: pull, Pulled: pulled}
	m.Score = m.evaluate()
	return m
}

// evaluate computes the move-ordering score.
func (m Move) evaluate() int {
	if m.Captures {
		return CaptureScore
	}
	target := m.Origin.Add(m.Dir)
	start, end := Inward(m.Origin), Inward(target)
	if m.Pushed > 0 {
		return m.Pulled + m.Pushed + start - end
	}
	return m.Pulled + end - start
}

// IsValid returns false for NoMove.
func (m Move) IsValid() bool {
	return m.Color != Empty
}

// IsInline returns true if the marbles move along their own line.
func (m Move) IsInline() bool {
	return m.PullDir == m.Dir.Opposite()
}

// IsPush returns true if the move displaces opposing marbles.
func (m Move) IsPush() bool {
	return m.Pushed > 0
}

// Target returns the cell directly ahead of Origin.
func (m Move) Target() Pos {
	return m.Origin.Add(m.Dir)
}

// Cells returns every cell the move reads or writes, including a capture
// landing cell that lies off the board.
func (m Move) Cells() []Pos {
	cells := make([]Pos, 0, 8)
	for i := 0; i <= m.Pulled; i++ {
		p := m.Origin.Step(m.PullDir, i)
		cells = append(cells, p)
		if !m.IsInline() {
			cells = append(cells, p.Add(m.Dir))
		}
	}
	if m.IsInline() {
		for i := 1; i <= m.Pushed+1; i++ {
			cells = append(cells, m.Origin.Step(m.Dir, i))
		}
	}
	return cells
}

// String returns the move notation.
//
// In-line moves render as "<back>,<back+dir>": the trailing marble and the
// cell it steps onto. Broadside moves render as "<origin>-<end>,<origin+dir>".
func (m Move) String() string {
	if !m.IsValid() {
		return "none"
	}
	if m.IsInline() {
		back := m.Origin.Step(m.PullDir, m.Pulled)
		return back.String() + "," + back.Add(m.Dir).String()
	}
	end := m.Origin.Step(m.PullDir, m.Pulled)
	return m.Origin.String() + "-" + end.String() + "," + m.Origin.Add(m.Dir).String()
}

// Describe returns a debugging description of the move.
func (m Move) Describe() string {
	kind := "broadside"
	if m.IsInline() {
		kind = "inline"
	}
	return fmt.Sprintf("%s %s from %s dir %s, %d pulled from %s, %d pushed, capture=%t, score=%d",
		m.Color, kind, m.Origin, m.Dir, m.Pulled, m.PullDir, m.Pushed, m.Captures, m.Score)
}

// ParseMove resolves move notation against the legal moves of b.
func ParseMove(s string, b *Board) (Move, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	for _, m := range GenerateMoves(b) {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}
