package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristCell       [2][BoardSize * BoardSize]uint64 // [White, Black][cell index]
	zobristSideToMove uint64                           // XOR into Key when White is to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0xA8A1_0E5E_D00D_F00D)

	for c := 0; c < 2; c++ {
		for i := range zobristCell[c] {
			zobristCell[c][i] = rng.next()
		}
	}
	zobristSideToMove = rng.next()
}

func colorIndex(c Color) int {
	if c == White {
		return 0
	}
	return 1
}

// zobristKey returns the key for a marble of color c at p.
func zobristKey(p Pos, c Color) uint64 {
	return zobristCell[colorIndex(c)][p.index()]
}

// ComputeHash computes the occupancy hash from scratch.
func (b *Board) ComputeHash() uint64 {
	var hash uint64
	for _, p := range allPositions {
		if c := b.cells[p.X][p.Y].Color; c != Empty {
			hash ^= zobristKey(p, c)
		}
	}
	return hash
}

// Key returns the transposition key: the occupancy hash combined with the
// side to move.
func (b *Board) Key() uint64 {
	if b.Turn == White {
		return b.Hash ^ zobristSideToMove
	}
	return b.Hash
}
