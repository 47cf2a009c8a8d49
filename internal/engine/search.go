package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

// Search constants
const (
	// Infinity bounds every reachable score, including decided games.
	Infinity = 2 * WinScore

	// MaxDepth is the deepest search FindBest accepts.
	MaxDepth = 12
)

var (
	// ErrDepthOutOfRange is returned when a search depth is outside [1, MaxDepth].
	ErrDepthOutOfRange = errors.New("search depth out of range")

	// ErrSearchStopped is returned when the search context is done.
	ErrSearchStopped = errors.New("search stopped")
)

// Searcher performs a fixed-depth negamax alpha-beta search.
//
// A Searcher mutates the board it is given and restores it before
// returning. It is not safe for concurrent use; give every goroutine its
// own Searcher and board.
type Searcher struct {
	tt            *TranspositionTable
	maxCandidates int

	done    <-chan struct{}
	stopped bool

	nodes        uint64
	noMoveLeaves uint64
}

// NewSearcher creates a new searcher using tt.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:            tt,
		maxCandidates: board.DefaultMaxCandidates,
	}
}

// SetMaxCandidates sets how many best-ordered moves each node searches.
// Zero searches every legal move.
func (s *Searcher) SetMaxCandidates(n int) {
	if n < 0 {
		n = 0
	}
	s.maxCandidates = n
}

// Reset clears the statistics of the previous search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.noMoveLeaves = 0
	s.stopped = false
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// NoMoveLeaves returns how many interior nodes had no legal move and were
// scored by static evaluation.
func (s *Searcher) NoMoveLeaves() uint64 {
	return s.noMoveLeaves
}

// FindBest searches every root candidate to maxDepth plies and returns
// the move with the highest score, from the side to move's perspective.
//
// NoMove with a nil error means the side to move has no legal move. If ctx
// is done before the search completes, the best move found so far is
// returned together with ErrSearchStopped.
func (s *Searcher) FindBest(ctx context.Context, b *board.Board, maxDepth int) (board.Move, int, error) {
	if maxDepth < 1 || maxDepth > MaxDepth {
		return board.NoMove, 0, fmt.Errorf("%w: %d (want 1..%d)", ErrDepthOutOfRange, maxDepth, MaxDepth)
	}

	s.Reset()
	s.done = ctx.Done()
	s.tt.NewSearch()

	bestMove := board.NoMove
	bestScore := -Infinity

	picker := board.NewMovePicker(b, s.maxCandidates)
	for m, ok := picker.Next(); ok; m, ok = picker.Next() {
		b.MakeMove(m)
		score := -s.search(b, -Infinity, Infinity, maxDepth-1)
		b.UnmakeMove(m)

		if s.stopped {
			break
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}

	if s.stopped {
		return bestMove, bestScore, fmt.Errorf("%w: %w", ErrSearchStopped, ctx.Err())
	}
	if !bestMove.IsValid() {
		return board.NoMove, Evaluate(b), nil
	}
	return bestMove, bestScore, nil
}

// search is the fail-hard negamax recursion. Scores are from the
// perspective of the side to move at b.
func (s *Searcher) search(b *board.Board, alpha, beta, depth int) int {
	if s.interrupted() {
		return 0
	}
	s.nodes++

	if depth == 0 {
		return Evaluate(b)
	}
	if b.IsGameOver() {
		// Prefer quicker wins and slower losses.
		score := Evaluate(b)
		if score > 0 {
			return score + depth
		}
		return score - depth
	}

	key := b.Key()
	if score, ok := s.tt.Lookup(key, depth, alpha, beta); ok {
		return score
	}

	flag := TTUpperBound
	searched := 0

	picker := board.NewMovePicker(b, s.maxCandidates)
	for m, ok := picker.Next(); ok; m, ok = picker.Next() {
		searched++

		b.MakeMove(m)
		score := -s.search(b, -beta, -alpha, depth-1)
		b.UnmakeMove(m)

		if s.stopped {
			return 0
		}

		if score >= beta {
			s.tt.Store(key, depth, beta, TTLowerBound)
			return beta
		}
		if score > alpha {
			alpha = score
			flag = TTExact
		}
	}

	if searched == 0 {
		s.noMoveLeaves++
		return Evaluate(b)
	}

	s.tt.Store(key, depth, alpha, flag)
	return alpha
}

// interrupted polls the search context without blocking.
func (s *Searcher) interrupted() bool {
	if s.stopped {
		return true
	}
	select {
	case <-s.done:
		s.stopped = true
	default:
	}
	return s.stopped
}
