package engine

import "github.com/Daniel-Arsenev/Abalone-AI/internal/board"

// Evaluation weights
const (
	// WinScore is returned once a side has lost six marbles.
	WinScore = 1_000_000

	// CaptureWeight is the value of each marble pushed off the board.
	CaptureWeight = 30
)

// Evaluate returns the static evaluation of a position from the
// perspective of the side to move.
func Evaluate(b *board.Board) int {
	return b.Turn.Sign() * EvaluateAbsolute(b)
}

// EvaluateAbsolute returns the static evaluation with Black positive.
//
// The score sums, for every marble, its positional weight and the length
// of its runs in all six directions, signed by its color, plus the capture
// balance. A finished game scores exactly ±WinScore: the positional and
// run terms are not added, so all decided positions tie and search tells
// them apart only by the depth at which they are reached.
func EvaluateAbsolute(b *board.Board) int {
	if b.CapturedWhite >= board.WinningCaptures {
		return WinScore
	}
	if b.CapturedBlack >= board.WinningCaptures {
		return -WinScore
	}

	score := 0
	for _, p := range board.AllPositions() {
		c := b.At(p)
		if c == board.Empty {
			continue
		}
		v := board.PositionalWeight(p)
		for _, d := range board.Directions {
			v += b.RunLength(p, d)
		}
		score += c.Sign() * v
	}

	return score + CaptureWeight*(b.CapturedWhite-b.CapturedBlack)
}

// EvaluateMaterial returns the capture balance from Black's perspective.
func EvaluateMaterial(b *board.Board) int {
	return b.CapturedWhite - b.CapturedBlack
}
