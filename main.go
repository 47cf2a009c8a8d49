// Abalone-AI plays engine self-play games of Abalone in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/config"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/logging"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/match"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/render"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to config.json (default: XDG config dir)")
	games      = flag.Int("games", 0, "number of games to play (overrides config)")
	delay      = flag.Duration("delay", -1, "pause after every move (overrides config)")
	black      = flag.String("black", "", "black difficulty: random, easy, medium, hard")
	white      = flag.String("white", "", "white difficulty: random, easy, medium, hard")
	start      = flag.String("start", "", "starting position notation")
	last       = flag.Bool("last", false, "reuse the players, depth and width of the previous run")
	quiet      = flag.Bool("quiet", false, "do not print the board after every move")
	showStats  = flag.Bool("stats", false, "print recorded statistics and exit")
	diagram    = flag.String("diagram", "", "save the final position as .svg or .png")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit code. Deferred cleanup, such as closing the
// database, always happens before the process exits.
func run() int {
	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var store *storage.Storage
	if cfg.Storage.Enabled {
		store, err = openStorage(cfg.Storage.Dir)
		if err != nil {
			log.Warn().Err(err).Msg("storage disabled")
		} else {
			defer store.Close()
		}
	}

	if *showStats {
		if store == nil {
			log.Error().Msg("statistics need storage to be enabled")
			return 1
		}
		if err := printStats(store); err != nil {
			log.Error().Err(err).Msg("read statistics")
			return 1
		}
		return 0
	}

	if *last {
		if store == nil {
			log.Error().Msg("-last needs storage to be enabled")
			return 1
		}
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Error().Err(err).Msg("load preferences")
			return 1
		}
		applyPreferences(cfg, prefs)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid settings")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := play(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("game aborted")
		return 1
	}

	if store != nil {
		saveResults(store, cfg, results)
	}

	if *diagram != "" && len(results) > 0 {
		final := results[len(results)-1]
		opts := renderOptions(cfg)
		if n := len(final.Moves); n > 0 {
			opts.LastMove = final.Moves[n-1]
		}
		path := *diagram
		if !filepath.IsAbs(path) && cfg.Render.OutputDir != "" {
			path = filepath.Join(cfg.Render.OutputDir, path)
		}
		if err := render.SaveFile(path, final.Final, opts); err != nil {
			log.Error().Err(err).Msg("save diagram")
			return 1
		}
		fmt.Printf("Diagram saved to %s\n", path)
	}
	return 0
}

func applyFlags(cfg *config.Config) {
	if *games > 0 {
		cfg.Match.Games = *games
	}
	if *delay >= 0 {
		cfg.Match.Delay = config.Duration(*delay)
	}
	if *black != "" {
		cfg.Match.Black = *black
	}
	if *white != "" {
		cfg.Match.White = *white
	}
	if *start != "" {
		cfg.Match.Start = *start
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir != "" {
		return storage.Open(dir)
	}
	return storage.NewStorage()
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		CellSize:    cfg.Render.CellSize,
		RenderScale: cfg.Render.RenderScale,
		Labels:      cfg.Render.Labels,
	}
}

// newPlayers builds fresh engine players for one game.
func newPlayers(cfg *config.Config) match.NewPlayers {
	blackLevel, _ := engine.ParseDifficulty(cfg.Match.Black)
	whiteLevel, _ := engine.ParseDifficulty(cfg.Match.White)
	return func(i int) (match.Player, match.Player) {
		b := match.NewEnginePlayer(blackLevel, cfg.Engine.HashMB)
		w := match.NewEnginePlayer(whiteLevel, cfg.Engine.HashMB)
		b.Depth, w.Depth = cfg.Engine.Depth, cfg.Engine.Depth
		b.Width, w.Width = cfg.Engine.Width, cfg.Engine.Width
		if cfg.Engine.Seed != 0 {
			b.Engine.Seed(cfg.Engine.Seed + uint64(2*i))
			w.Engine.Seed(cfg.Engine.Seed + uint64(2*i+1))
		}
		return b, w
	}
}

func play(ctx context.Context, cfg *config.Config) ([]match.Result, error) {
	if cfg.Match.Games > 1 {
		series := match.SeriesConfig{
			Games:    cfg.Match.Games,
			Parallel: cfg.Match.Parallel,
			Start:    cfg.Match.Start,
			MaxTurns: cfg.Match.MaxTurns,
			Delay:    time.Duration(cfg.Match.Delay),
		}
		results, err := match.RunSeries(ctx, series, newPlayers(cfg))
		if err != nil {
			return nil, err
		}
		s := match.Summarize(results)
		fmt.Printf("%d games: black %d, white %d, draws %d, %d plies in %s\n",
			s.Games, s.BlackWins, s.WhiteWins, s.Draws, s.Plies, s.Duration.Round(time.Millisecond))
		return results, nil
	}

	b := board.NewBoard()
	if cfg.Match.Start != "" {
		var err error
		if b, err = board.ParseNotation(cfg.Match.Start); err != nil {
			return nil, err
		}
	}

	blackPlayer, whitePlayer := newPlayers(cfg)(0)
	m := &match.Match{
		Black:    blackPlayer,
		White:    whitePlayer,
		MaxTurns: cfg.Match.MaxTurns,
		Delay:    time.Duration(cfg.Match.Delay),
	}
	if !*quiet {
		fmt.Print(b)
		m.OnMove = func(ply int, mv board.Move, b *board.Board) {
			fmt.Printf("%d. %s plays %s\n", ply, mv.Color, mv)
			fmt.Print(b)
		}
	}

	res, err := m.Play(ctx, b)
	if err != nil {
		return nil, err
	}
	fmt.Println(res)
	return []match.Result{res}, nil
}

func saveResults(store *storage.Storage, cfg *config.Config, results []match.Result) {
	for _, res := range results {
		rec := newGameRecord(res, cfg.Match.Black, cfg.Match.White)
		if err := store.RecordGame(rec); err != nil {
			log.Warn().Err(err).Msg("failed to record game")
		}
	}

	prefs := newPreferences(cfg)
	if err := store.SavePreferences(prefs); err != nil {
		log.Warn().Err(err).Msg("failed to save preferences")
	}
}

func printStats(store *storage.Storage) error {
	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("Games played: %d\n", stats.GamesPlayed)
	fmt.Printf("Black wins:   %d (%.1f%%)\n", stats.BlackWins, stats.GetWinRate("black"))
	fmt.Printf("White wins:   %d (%.1f%%)\n", stats.WhiteWins, stats.GetWinRate("white"))
	fmt.Printf("Draws:        %d\n", stats.Draws)
	fmt.Printf("Avg. plies:   %.1f\n", stats.AverageMoves())
	fmt.Printf("Captured:     %d marbles\n", stats.MarblesCaptured)

	recent, err := store.ListGames(10)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Println("\nRecent games:")
	}
	for _, rec := range recent {
		winner := rec.Winner
		if rec.IsDraw() {
			winner = "draw"
		}
		fmt.Printf("  #%d %s  %s vs %s  %s (%s), %d turns\n",
			rec.ID, rec.PlayedAt.Format("2006-01-02 15:04"), rec.BlackPlayer, rec.WhitePlayer,
			winner, rec.Reason, rec.Turns)
	}
	return nil
}
