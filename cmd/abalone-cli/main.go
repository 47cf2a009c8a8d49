package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/config"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/logging"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/protocol"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/render"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configPath = flag.String("config", "", "path to config.json (default: XDG config dir)")
)

func main() {
	flag.Parse()

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// stdout carries the protocol, so logs always go to stderr.
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	eng := engine.NewEngine(cfg.Engine.HashMB)
	if cfg.Engine.Seed != 0 {
		eng.Seed(cfg.Engine.Seed)
	}
	d, _ := engine.ParseDifficulty(cfg.Engine.Difficulty)
	eng.SetDifficulty(d)

	p := protocol.New(eng, os.Stdout)
	p.SetLimits(cfg.SearchLimits())
	p.SetRenderOptions(render.Options{
		CellSize:    cfg.Render.CellSize,
		RenderScale: cfg.Render.RenderScale,
		Labels:      cfg.Render.Labels,
	})
	p.SetOutputDir(cfg.Render.OutputDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := p.Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("protocol loop failed")
	}
}
