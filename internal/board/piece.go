package board

// Color is the content of a cell or the side to move.
// The values double as evaluation signs: Black counts positive.
type Color int8

const (
	White Color = -1
	Empty Color = 0
	Black Color = 1
)

// Other returns the opposite color. Empty stays Empty.
func (c Color) Other() Color {
	return -c
}

// Sign returns +1 for Black, -1 for White and 0 for Empty.
func (c Color) Sign() int {
	return int(c)
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "empty"
	}
}

// Char returns the notation character for the color.
func (c Color) Char() byte {
	switch c {
	case White:
		return 'W'
	case Black:
		return 'B'
	default:
		return '.'
	}
}

// ColorFromChar parses a notation character. ok is false for unknown input.
func ColorFromChar(ch byte) (c Color, ok bool) {
	switch ch {
	case 'B':
		return Black, true
	case 'W':
		return White, true
	case '.':
		return Empty, true
	}
	return Empty, false
}

// Cell holds a color plus the cached run-lengths toward each direction.
type Cell struct {
	Color Color

	// runs[d] counts consecutive same-color cells starting one step away
	// in direction d, capped at 2. Only meaningful while dirty bit d is clear.
	runs  [NumDirections]int8
	dirty uint8
}

const allDirty uint8 = 1<<NumDirections - 1
