package board

import (
	"errors"
	"fmt"
	"strings"
)

// StartNotation is the notation for the standard starting position.
const StartNotation = "B:BBBBBBBBBBB..BBB.............................WWW..WWWWWWWWWWW"

// ErrInvalidNotation is returned for malformed board notation.
var ErrInvalidNotation = errors.New("invalid board notation")

// notationLength is the turn marker, the separator and one char per cell.
const notationLength = 2 + NumCells

// ParseNotation parses a board notation of the form "<T>:<61 cells>".
//
// T is 'B' or 'W' for the side to move. The cells are listed row by row
// from the bottom row (A, five cells) to the top row (I), left to right,
// using 'B', 'W' and '.'. Captures are derived from the marbles missing
// from each side.
func ParseNotation(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	if len(s) != notationLength {
		return nil, fmt.Errorf("%w: need %d characters, got %d", ErrInvalidNotation, notationLength, len(s))
	}
	if s[1] != ':' {
		return nil, fmt.Errorf("%w: missing ':' after turn marker", ErrInvalidNotation)
	}

	b := &Board{}
	switch s[0] {
	case 'B':
		b.Turn = Black
	case 'W':
		b.Turn = White
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %c", ErrInvalidNotation, s[0])
	}

	if err := parseCells(b, s[2:]); err != nil {
		return nil, err
	}

	blacks, whites := b.PieceCount(Black), b.PieceCount(White)
	for _, side := range []struct {
		c Color
		n int
	}{{Black, blacks}, {White, whites}} {
		if side.n > PiecesPerSide || side.n < PiecesPerSide-WinningCaptures {
			return nil, fmt.Errorf("%w: %d %s marbles (want %d..%d)",
				ErrInvalidNotation, side.n, side.c, PiecesPerSide-WinningCaptures, PiecesPerSide)
		}
	}
	b.CapturedBlack = PiecesPerSide - blacks
	b.CapturedWhite = PiecesPerSide - whites

	b.Hash = b.ComputeHash()
	b.refreshRuns()

	return b, nil
}

// parseCells fills the cells of b from the 61-character cell listing.
func parseCells(b *Board, cells string) error {
	i := 0
	for y := 0; y < BoardSize; y++ {
		for j := 0; j < rowLength[y]; j++ {
			ch := cells[i]
			c, ok := ColorFromChar(ch)
			if !ok {
				return fmt.Errorf("%w: invalid cell character %q at %s",
					ErrInvalidNotation, ch, Pos{j + rowOffset[y], y})
			}
			b.cells[j+rowOffset[y]][y].Color = c
			i++
		}
	}
	return nil
}

// Notation returns the notation string of the board.
func (b *Board) Notation() string {
	var sb strings.Builder
	sb.Grow(notationLength)

	if b.Turn == White {
		sb.WriteByte('W')
	} else {
		sb.WriteByte('B')
	}
	sb.WriteByte(':')

	for y := 0; y < BoardSize; y++ {
		for j := 0; j < rowLength[y]; j++ {
			sb.WriteByte(b.cells[j+rowOffset[y]][y].Color.Char())
		}
	}
	return sb.String()
}
