package board

import (
	"cmp"
	"slices"
)

// DefaultMaxCandidates is the number of best-ordered moves a MovePicker
// exposes to one search node.
const DefaultMaxCandidates = 20

// GenerateMoves returns every legal move for the side to move, sorted
// ascending by ordering score. Equal scores keep generation order.
func GenerateMoves(b *Board) []Move {
	moves := make([]Move, 0, 128)
	for _, p := range allPositions {
		if b.cells[p.X][p.Y].Color != b.Turn {
			continue
		}
		moves = b.generateFrom(p, moves)
	}
	slices.SortStableFunc(moves, func(a, c Move) int {
		return cmp.Compare(a.Score, c.Score)
	})
	return moves
}

// generateFrom appends the moves whose front marble sits at origin.
func (b *Board) generateFrom(origin Pos, moves []Move) []Move {
	us := b.Turn
	them := us.Other()

	for _, d := range Directions {
		target := origin.Add(d)
		if !target.Valid() {
			continue
		}

		targetColor := b.cells[target.X][target.Y].Color
		if targetColor == us {
			continue
		}

		support := b.RunLength(origin, d.Opposite())

		if targetColor == Empty {
			// In-line slides of 1..3 marbles
			for i := 0; i <= support; i++ {
				moves = append(moves, newInlineMove(us, origin, d, i))
			}

			// Broadside moves: the line and its destination must both be free.
			// The target's run-length counts empty cells because it is empty.
			for _, pull := range HalfDirections {
				if pull == d || pull == d.Opposite() {
					continue
				}
				n := min(b.RunLength(target, pull), b.RunLength(origin, pull))
				for i := 1; i <= n; i++ {
					moves = append(moves, newBroadsideMove(us, origin, d, pull, i))
				}
			}
			continue
		}

		if targetColor == them {
			resistance := b.RunLength(target, d)
			diff := support - resistance
			if diff < 1 {
				continue
			}

			landing := target.Step(d, resistance+1)
			captures := !landing.Valid()
			if !captures && b.cells[landing.X][landing.Y].Color != Empty {
				continue
			}

			moves = append(moves, newPushMove(us, origin, d, resistance+1, resistance+1, captures))
			if diff >= 2 {
				moves = append(moves, newPushMove(us, origin, d, resistance+2, resistance+1, captures))
			}
		}
	}
	return moves
}

// MovePicker yields generated moves best-first, up to a width limit.
type MovePicker struct {
	moves  []Move
	limit  int
	picked int
}

// NewMovePicker generates the moves of b. A limit of 0 means unlimited.
func NewMovePicker(b *Board, limit int) *MovePicker {
	return &MovePicker{
		moves: GenerateMoves(b),
		limit: limit,
	}
}

// Next returns the highest-scored remaining move. ok is false once the
// moves or the width limit are exhausted.
func (mp *MovePicker) Next() (m Move, ok bool) {
	n := len(mp.moves)
	if n == 0 || (mp.limit > 0 && mp.picked >= mp.limit) {
		return NoMove, false
	}
	mp.picked++
	m = mp.moves[n-1]
	mp.moves = mp.moves[:n-1]
	return m, true
}

// Len returns the number of moves the picker will still yield.
func (mp *MovePicker) Len() int {
	n := len(mp.moves)
	if mp.limit > 0 && mp.limit-mp.picked < n {
		return mp.limit - mp.picked
	}
	return n
}

// Intner is the random source used for weakest play.
type Intner interface {
	Intn(n int) int
}

// RandomMove returns a uniformly chosen legal move, or NoMove if none exists.
func RandomMove(b *Board, rng Intner) Move {
	moves := GenerateMoves(b)
	if len(moves) == 0 {
		return NoMove
	}
	return moves[rng.Intn(len(moves))]
}
