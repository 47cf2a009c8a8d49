package match

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
)

// SeriesConfig describes a set of independent games.
type SeriesConfig struct {
	Games    int
	Parallel int    // games played at once; 0 means GOMAXPROCS
	Start    string // starting notation; empty means the standard position
	MaxTurns int
	Delay    time.Duration
}

// NewPlayers returns fresh players for game i. Players are never shared
// between games, since engines are not safe for concurrent use.
type NewPlayers func(i int) (black, white Player)

// Summary aggregates the results of a series.
type Summary struct {
	Games     int
	BlackWins int
	WhiteWins int
	Draws     int
	Plies     int
	Duration  time.Duration
}

// Add counts one result.
func (s *Summary) Add(r Result) {
	s.Games++
	switch r.Winner {
	case board.Black:
		s.BlackWins++
	case board.White:
		s.WhiteWins++
	default:
		s.Draws++
	}
	s.Plies += len(r.Moves)
	s.Duration += r.Duration
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}

// RunSeries plays cfg.Games games concurrently, each on its own board
// with its own players. Results are returned in game order. The first
// failing game cancels the rest.
func RunSeries(ctx context.Context, cfg SeriesConfig, newPlayers NewPlayers) ([]Result, error) {
	if cfg.Games <= 0 {
		return nil, nil
	}
	start := cfg.Start
	if start == "" {
		start = board.StartNotation
	}
	if _, err := board.ParseNotation(start); err != nil {
		return nil, err
	}

	parallel := cfg.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, cfg.Games)
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			b, err := board.ParseNotation(start)
			if err != nil {
				return err
			}
			black, white := newPlayers(i)
			m := &Match{
				Black:    black,
				White:    white,
				MaxTurns: cfg.MaxTurns,
				Delay:    cfg.Delay,
			}

			res, err := m.Play(ctx, b)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res

			mu.Lock()
			done++
			log.Debug().Int("game", i).Int("done", done).Str("result", res.String()).Msg("series game finished")
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
