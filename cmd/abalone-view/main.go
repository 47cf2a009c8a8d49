// abalone-view watches engine self-play games in a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/config"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/logging"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/match"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/render"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/ui"
)

var configPath = flag.String("config", "", "path to config.json (default: XDG config dir)")

func main() {
	flag.Parse()

	cfg, err := config.InitConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	blackLevel, _ := engine.ParseDifficulty(cfg.Match.Black)
	whiteLevel, _ := engine.ParseDifficulty(cfg.Match.White)
	newMatch := func() *match.Match {
		b := match.NewEnginePlayer(blackLevel, cfg.Engine.HashMB)
		w := match.NewEnginePlayer(whiteLevel, cfg.Engine.HashMB)
		b.Depth, w.Depth = cfg.Engine.Depth, cfg.Engine.Depth
		b.Width, w.Width = cfg.Engine.Width, cfg.Engine.Width
		return &match.Match{
			Black:    b,
			White:    w,
			MaxTurns: cfg.Match.MaxTurns,
			Delay:    time.Duration(cfg.Match.Delay),
		}
	}

	opts := render.Options{
		CellSize:    cfg.Render.CellSize,
		RenderScale: cfg.Render.RenderScale,
		Labels:      cfg.Render.Labels,
	}
	viewer, err := ui.NewViewer(newMatch, cfg.Match.Start, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid start position")
	}
	viewer.NewGame()
	defer viewer.Stop()

	w, h := viewer.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Abalone-AI")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal().Err(err).Msg("window closed with error")
	}
}
