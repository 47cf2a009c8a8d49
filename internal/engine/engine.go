package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth        int
	Score        int
	Move         board.Move
	Nodes        uint64
	NoMoveLeaves uint64
	Time         time.Duration
	HashFull     int     // Permille of hash table used
	HitRate      float64 // Percentage of table probes that found their key
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth         int  // Search depth in plies (1..MaxDepth)
	MaxCandidates int  // Moves searched per node (0 = all)
	Random        bool // Play a uniformly random legal move instead
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Random Difficulty = iota // uniformly random legal move
	Easy                     // 2 ply
	Medium                   // 3 ply
	Hard                     // 5 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Random: {Random: true},
	Easy:   {Depth: 2, MaxCandidates: board.DefaultMaxCandidates},
	Medium: {Depth: 3, MaxCandidates: board.DefaultMaxCandidates},
	Hard:   {Depth: 5, MaxCandidates: board.DefaultMaxCandidates},
}

var difficultyNames = [...]string{"random", "easy", "medium", "hard"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return "Difficulty(" + strconv.Itoa(int(d)) + ")"
	}
	return difficultyNames[d]
}

// ParseDifficulty parses a difficulty name such as "medium".
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range difficultyNames {
		if s == name {
			return Difficulty(i), nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the Abalone AI engine.
type Engine struct {
	searcher   *Searcher
	tt         *TranspositionTable
	difficulty Difficulty
	rng        *frand.RNG

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		searcher:   NewSearcher(tt),
		tt:         tt,
		difficulty: Medium,
		rng:        frand.New(),
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the engine difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Seed makes random play reproducible.
func (e *Engine) Seed(seed uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	e.rng = frand.NewCustom(key[:], 1024, 12)
}

// Search finds the best move for the given position at the engine's difficulty.
func (e *Engine) Search(ctx context.Context, b *board.Board) (board.Move, error) {
	return e.SearchWithLimits(ctx, b, DifficultySettings[e.difficulty])
}

// SearchWithLimits finds the best move with specific search limits.
// NoMove with a nil error means the side to move has no legal move.
func (e *Engine) SearchWithLimits(ctx context.Context, b *board.Board, limits SearchLimits) (board.Move, error) {
	if limits.Random {
		m := board.RandomMove(b, e.rng)
		log.Debug().Str("move", m.String()).Msg("random move")
		return m, nil
	}

	startTime := time.Now()
	e.searcher.SetMaxCandidates(limits.MaxCandidates)

	move, score, err := e.searcher.FindBest(ctx, b, limits.Depth)
	if err != nil {
		return move, err
	}

	info := SearchInfo{
		Depth:        limits.Depth,
		Score:        score,
		Move:         move,
		Nodes:        e.searcher.Nodes(),
		NoMoveLeaves: e.searcher.NoMoveLeaves(),
		Time:         time.Since(startTime),
		HashFull:     e.tt.HashFull(),
		HitRate:      e.tt.HitRate(),
	}
	log.Debug().
		Int("depth", info.Depth).
		Int("score", info.Score).
		Str("move", move.String()).
		Uint64("nodes", info.Nodes).
		Uint64("no_move_leaves", info.NoMoveLeaves).
		Dur("elapsed", info.Time).
		Int("hashfull", info.HashFull).
		Float64("tthit", info.HitRate).
		Msg("search finished")

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, nil
}

// Clear clears the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(b *board.Board, depth int) int64 {
	return board.Perft(b, depth)
}

// Evaluate returns the static evaluation of a position for the side to move.
func (e *Engine) Evaluate(b *board.Board) int {
	return Evaluate(b)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= WinScore {
		return "win"
	}
	if score <= -WinScore {
		return "loss"
	}
	return strconv.Itoa(score)
}
