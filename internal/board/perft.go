package board

// Perft counts the leaf nodes of the full move tree to the given depth.
// It is the standard check of move generation and make/unmake symmetry.
func Perft(b *Board, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := GenerateMoves(b)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		b.MakeMove(m)
		nodes += Perft(b, depth-1)
		b.UnmakeMove(m)
	}
	return nodes
}
