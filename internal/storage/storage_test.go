package storage

import (
	"errors"
	"os"
	"testing"
	"time"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.BlackDifficulty != "hard" || prefs.WhiteDifficulty != "random" {
			t.Errorf("unexpected default difficulties %q/%q", prefs.BlackDifficulty, prefs.WhiteDifficulty)
		}
		if prefs.Width != 20 {
			t.Errorf("Expected width 20, got %d", prefs.Width)
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate("black") != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			BlackWins:   5,
			WhiteWins:   3,
			Draws:       2,
		}
		if rate := stats.GetWinRate("black"); rate != 50 {
			t.Errorf("Expected 50%% black win rate, got %.2f%%", rate)
		}
		if rate := stats.GetWinRate("white"); rate != 30 {
			t.Errorf("Expected 30%% white win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if *prefs != *DefaultPreferences() {
		t.Errorf("empty database returned %+v, want defaults", prefs)
	}

	prefs.BlackDifficulty = "easy"
	prefs.Depth = 3
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if got.BlackDifficulty != "easy" || got.Depth != 3 {
		t.Errorf("loaded %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	games := []*GameRecord{
		{Winner: "black", Reason: "captures", Moves: []string{"A1,B2", "I5,H5", "A2,B3"}, BlackDifficulty: "hard", CapturedWhite: 6, Duration: time.Second},
		{Winner: "", Reason: "turn limit", Moves: []string{"A1,B2", "I5,H5"}, Duration: 2 * time.Second},
		{Winner: "white", Reason: "no legal moves", Moves: []string{"A1,B2"}, WhiteDifficulty: "random", CapturedBlack: 1},
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame failed: %v", err)
		}
	}
	if games[0].ID == 0 || games[0].ID == games[1].ID || games[2].ID <= games[1].ID {
		t.Errorf("IDs not increasing: %d %d %d", games[0].ID, games[1].ID, games[2].ID)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.GamesPlayed != 3 || stats.BlackWins != 1 || stats.WhiteWins != 1 || stats.Draws != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalMoves != 6 || stats.AverageMoves() != 2 {
		t.Errorf("TotalMoves = %d, AverageMoves = %.1f", stats.TotalMoves, stats.AverageMoves())
	}
	if stats.MarblesCaptured != 7 {
		t.Errorf("MarblesCaptured = %d, want 7", stats.MarblesCaptured)
	}
	if stats.WinsByReason["captures"] != 1 || stats.WinsByDifficulty["random"] != 1 {
		t.Errorf("breakdown = %v / %v", stats.WinsByReason, stats.WinsByDifficulty)
	}
	if stats.TotalPlayTime != 3*time.Second {
		t.Errorf("TotalPlayTime = %v", stats.TotalPlayTime)
	}

	rec, err := s.LoadGame(games[0].ID)
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if rec.Winner != "black" || len(rec.Moves) != 3 || rec.Moves[2] != "A2,B3" {
		t.Errorf("loaded %+v", rec)
	}

	if _, err := s.LoadGame(9999); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame(9999) error = %v, want ErrGameNotFound", err)
	}
}

func TestListGames(t *testing.T) {
	s := openTest(t)

	for i := 0; i < 5; i++ {
		if err := s.RecordGame(&GameRecord{Winner: "black", Turns: i}); err != nil {
			t.Fatalf("RecordGame failed: %v", err)
		}
	}

	all, err := s.ListGames(0)
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("ListGames(0) returned %d games, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID >= all[i-1].ID {
			t.Errorf("games not newest first: %d after %d", all[i].ID, all[i-1].ID)
		}
	}

	recent, err := s.ListGames(2)
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Turns != 4 {
		t.Errorf("ListGames(2) = %d games, newest turns %d", len(recent), recent[0].Turns)
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.RecordGame(&GameRecord{Winner: "white"}); err != nil {
		t.Fatalf("RecordGame failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.WhiteWins != 1 {
		t.Errorf("stats not persisted: %+v", stats)
	}
}

func TestDataPaths(t *testing.T) {
	// Test that GetDataDir returns a valid path
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}
