package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "seq/game"
	prefixGame     = "game/"
)

// Preferences stores the settings of the last run.
type Preferences struct {
	BlackDifficulty string    `json:"black_difficulty"`
	WhiteDifficulty string    `json:"white_difficulty"`
	Depth           int       `json:"depth"` // search depth override, 0 = difficulty preset
	Width           int       `json:"width"`
	LastPlayed      time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		BlackDifficulty: "hard",
		WhiteDifficulty: "random",
		Width:           20,
	}
}

// GameStats stores aggregate statistics over recorded games.
type GameStats struct {
	GamesPlayed      int            `json:"games_played"`
	BlackWins        int            `json:"black_wins"`
	WhiteWins        int            `json:"white_wins"`
	Draws            int            `json:"draws"`
	WinsByReason     map[string]int `json:"wins_by_reason"`
	WinsByDifficulty map[string]int `json:"wins_by_difficulty"`
	MarblesCaptured  int            `json:"marbles_captured"`
	TotalMoves       int            `json:"total_moves"`
	TotalPlayTime    time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByReason:     make(map[string]int),
		WinsByDifficulty: make(map[string]int),
	}
}

// GetWinRate returns the share of games won by color ("black" or
// "white") as a percentage (0-100).
func (s *GameStats) GetWinRate(color string) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	wins := s.BlackWins
	if color == "white" {
		wins = s.WhiteWins
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}

// AverageMoves returns the mean game length in plies.
func (s *GameStats) AverageMoves() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.GamesPlayed)
}

// GameRecord is a finished game.
type GameRecord struct {
	ID              uint64        `json:"id"`
	Start           string        `json:"start"`
	Moves           []string      `json:"moves"`
	Final           string        `json:"final"`
	Winner          string        `json:"winner"` // "black", "white" or "" for a draw
	Reason          string        `json:"reason"`
	Turns           int           `json:"turns"`
	BlackPlayer     string        `json:"black_player"`
	WhitePlayer     string        `json:"white_player"`
	BlackDifficulty string        `json:"black_difficulty,omitempty"`
	WhiteDifficulty string        `json:"white_difficulty,omitempty"`
	CapturedWhite   int           `json:"captured_white"`
	CapturedBlack   int           `json:"captured_black"`
	Duration        time.Duration `json:"duration"`
	PlayedAt        time.Time     `json:"played_at"`
}

// IsDraw returns true if nobody won.
func (r *GameRecord) IsDraw() bool {
	return r.Winner == ""
}

// ErrGameNotFound is returned by LoadGame for an unknown ID.
var ErrGameNotFound = errors.New("game not found")

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that is discarded on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open game sequence")
	}

	log.Debug().Str("dir", opts.Dir).Bool("in_memory", opts.InMemory).Msg("storage opened")
	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return errors.Wrap(err, "release game sequence")
		}
	}
	if s.db != nil {
		return errors.Wrap(s.db.Close(), "close database")
	}
	return nil
}

// getJSON decodes the value at key into v. A missing key leaves v untouched.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyPreferences, prefs)
	})
	return errors.Wrap(err, "save preferences")
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyPreferences, prefs)
	})
	return prefs, errors.Wrap(err, "load preferences")
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats, stats)
	})
	return stats, errors.Wrap(err, "load stats")
}

func gameKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixGame, id)
}

// RecordGame stores a finished game, assigning its ID, and updates the
// statistics in the same transaction.
func (s *Storage) RecordGame(rec *GameRecord) error {
	id, err := s.seq.Next()
	if err != nil {
		return errors.Wrap(err, "next game id")
	}
	rec.ID = id + 1
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		stats := NewGameStats()
		if err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		stats.add(rec)

		if err := setJSON(txn, gameKey(rec.ID), rec); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
	if err != nil {
		return errors.Wrapf(err, "record game %d", rec.ID)
	}

	log.Debug().Uint64("id", rec.ID).Str("winner", rec.Winner).Msg("game recorded")
	return nil
}

// add counts rec in the statistics.
func (s *GameStats) add(rec *GameRecord) {
	if s.WinsByReason == nil {
		s.WinsByReason = make(map[string]int)
	}
	if s.WinsByDifficulty == nil {
		s.WinsByDifficulty = make(map[string]int)
	}

	s.GamesPlayed++
	s.TotalMoves += len(rec.Moves)
	s.TotalPlayTime += rec.Duration
	s.MarblesCaptured += rec.CapturedWhite + rec.CapturedBlack

	switch strings.ToLower(rec.Winner) {
	case "black":
		s.BlackWins++
		s.WinsByReason[rec.Reason]++
		if rec.BlackDifficulty != "" {
			s.WinsByDifficulty[rec.BlackDifficulty]++
		}
	case "white":
		s.WhiteWins++
		s.WinsByReason[rec.Reason]++
		if rec.WhiteDifficulty != "" {
			s.WinsByDifficulty[rec.WhiteDifficulty]++
		}
	default:
		s.Draws++
	}
}

// LoadGame loads a recorded game by ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	var rec *GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gameKey(id)))
		if err == badger.ErrKeyNotFound {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		rec = &GameRecord{}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load game %d", id)
	}
	return rec, nil
}

// ListGames returns up to limit recorded games, newest first. A limit of
// 0 returns every game.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(prefixGame), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if limit > 0 && len(games) >= limit {
				break
			}
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	return games, errors.Wrap(err, "list games")
}
