package main

import (
	"time"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/config"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/match"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/storage"
)

// newGameRecord converts a finished game into its stored form.
func newGameRecord(res match.Result, blackLevel, whiteLevel string) *storage.GameRecord {
	moves := make([]string, len(res.Moves))
	for i, m := range res.Moves {
		moves[i] = m.String()
	}

	rec := &storage.GameRecord{
		Start:           res.Start,
		Moves:           moves,
		Reason:          res.Reason.String(),
		Turns:           res.Turns,
		BlackPlayer:     "engine",
		WhitePlayer:     "engine",
		BlackDifficulty: blackLevel,
		WhiteDifficulty: whiteLevel,
		Duration:        res.Duration,
		PlayedAt:        time.Now(),
	}
	if !res.IsDraw() {
		rec.Winner = res.Winner.String()
	}
	if res.Final != nil {
		rec.Final = res.Final.Notation()
		rec.CapturedWhite = res.Final.CapturedWhite
		rec.CapturedBlack = res.Final.CapturedBlack
	}
	return rec
}

// newPreferences records the settings the games were played with.
func newPreferences(cfg *config.Config) *storage.Preferences {
	return &storage.Preferences{
		BlackDifficulty: cfg.Match.Black,
		WhiteDifficulty: cfg.Match.White,
		Depth:           cfg.Engine.Depth,
		Width:           cfg.Engine.Width,
		LastPlayed:      time.Now(),
	}
}

// applyPreferences restores the settings of a previous run. Empty
// difficulties are left as configured.
func applyPreferences(cfg *config.Config, prefs *storage.Preferences) {
	if prefs.BlackDifficulty != "" {
		cfg.Match.Black = prefs.BlackDifficulty
	}
	if prefs.WhiteDifficulty != "" {
		cfg.Match.White = prefs.WhiteDifficulty
	}
	cfg.Engine.Depth = prefs.Depth
	cfg.Engine.Width = prefs.Width
}
