// Package board implements the Abalone board: hexagonal geometry, a cached
// line-strength model, move generation and reversible move application.
package board

import "fmt"

// BoardSize is the side of the rectangular index space holding the hexagon.
const BoardSize = 9

// NumCells is the number of in-play cells.
const NumCells = 61

// Pos indexes a cell of the 9x9 grid. Only 61 positions are in play.
// X is the column (rendered 1-9), Y the row (rendered A-I, bottom to top).
type Pos struct {
	X, Y int
}

// NoPos is an always-invalid position.
var NoPos = Pos{-1, -1}

// Valid returns true if the position lies on the playing area.
func (p Pos) Valid() bool {
	if p.X < 0 || p.X >= BoardSize || p.Y < 0 || p.Y >= BoardSize {
		return false
	}
	return validCells[p.X][p.Y]
}

// Add returns p shifted by the unit offset of d.
func (p Pos) Add(d Direction) Pos {
	o := offsets[d]
	return Pos{p.X + o.X, p.Y + o.Y}
}

// Step returns p shifted n times in direction d.
func (p Pos) Step(d Direction, n int) Pos {
	o := offsets[d]
	return Pos{p.X + n*o.X, p.Y + n*o.Y}
}

// index returns a dense 0..80 index used for hash keys.
func (p Pos) index() int {
	return p.X*BoardSize + p.Y
}

// String returns the cell name, e.g. "E5".
func (p Pos) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'A'+p.Y, '1'+p.X)
}

// ParsePos parses a cell name such as "E5".
func ParsePos(s string) (Pos, error) {
	if len(s) != 2 {
		return NoPos, fmt.Errorf("invalid cell: %q", s)
	}
	row := s[0]
	if row >= 'a' && row <= 'i' {
		row -= 'a' - 'A'
	}
	p := Pos{X: int(s[1]) - '1', Y: int(row) - 'A'}
	if !p.Valid() {
		return NoPos, fmt.Errorf("invalid cell: %q", s)
	}
	return p, nil
}

// AllPositions returns the 61 in-play positions, column by column.
func AllPositions() []Pos {
	return allPositions[:]
}

// Direction is one of the six hexagonal directions.
type Direction uint8

const (
	Up Direction = iota
	Forward
	Right
	Down
	Back
	Left
	NumDirections = 6
)

// Directions lists all six directions in index order.
var Directions = [NumDirections]Direction{Up, Forward, Right, Down, Back, Left}

// HalfDirections are the canonical directions along which broadside lines
// extend from their origin. Each line is generated from one end only.
var HalfDirections = [3]Direction{Up, Forward, Right}

var offsets = [NumDirections]Pos{
	{0, 1},   // Up
	{1, 1},   // Forward
	{1, 0},   // Right
	{0, -1},  // Down
	{-1, -1}, // Back
	{-1, 0},  // Left
}

var directionNames = [NumDirections]string{"up", "forward", "right", "down", "back", "left"}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 3) % NumDirections
}

// Offset returns the unit offset of d.
func (d Direction) Offset() Pos {
	return offsets[d]
}

func (d Direction) String() string {
	if d >= NumDirections {
		return "none"
	}
	return directionNames[d]
}

// Row lengths and x offsets of the notation's row-by-row listing (bottom row first).
var (
	rowLength = [BoardSize]int{5, 6, 7, 8, 9, 8, 7, 6, 5}
	rowOffset = [BoardSize]int{0, 0, 0, 0, 0, 1, 2, 3, 4}
)

// positionalWeight rewards central cells and punishes the rim (evaluation).
var positionalWeight = [BoardSize][BoardSize]int{
	{-6, -6, -6, -6, -6, 0, 0, 0, 0},
	{-6, 1, 1, 1, 1, -6, 0, 0, 0},
	{-6, 1, 5, 5, 5, 1, -6, 0, 0},
	{-6, 1, 5, 3, 3, 5, 1, -6, 0},
	{-6, 1, 5, 3, 0, 3, 5, 1, -6},
	{0, -6, 1, 5, 3, 3, 5, 1, -6},
	{0, 0, -6, 1, 5, 5, 5, 1, -6},
	{0, 0, 0, -6, 1, 1, 1, 1, -6},
	{0, 0, 0, 0, -6, -6, -6, -6, -6},
}

// inward rewards moving toward the centre (move ordering only).
var inward = [BoardSize][BoardSize]int{
	{-1, -1, -1, -1, -1, 0, 0, 0, 0},
	{-1, 1, 1, 1, 1, -1, 0, 0, 0},
	{-1, 1, 3, 3, 3, 1, -1, 0, 0},
	{-1, 1, 3, 5, 5, 3, 1, -1, 0},
	{-1, 1, 3, 5, 7, 5, 3, 1, -1},
	{0, -1, 1, 3, 5, 5, 3, 1, -1},
	{0, 0, -1, 1, 3, 3, 3, 1, -1},
	{0, 0, 0, -1, 1, 1, 1, 1, -1},
	{0, 0, 0, 0, -1, -1, -1, -1, -1},
}

// PositionalWeight returns the centrality weight of a cell.
func PositionalWeight(p Pos) int {
	return positionalWeight[p.X][p.Y]
}

// Inward returns the move-ordering centrality of a cell.
func Inward(p Pos) int {
	return inward[p.X][p.Y]
}

var (
	validCells   [BoardSize][BoardSize]bool
	allPositions [NumCells]Pos
)

func init() {
	n := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if d := x - y; d >= -4 && d <= 4 {
				validCells[x][y] = true
				allPositions[n] = Pos{x, y}
				n++
			}
		}
	}
}
