// Package storage provides persistent storage for preferences, game
// statistics and finished game records.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
)

const appName = "abalone"

// GetDataDir returns the XDG data directory for the application,
// creating it if needed.
//   - Linux: ~/.local/share/abalone/
//   - macOS: ~/Library/Application Support/abalone/
//   - Windows: %LOCALAPPDATA%/abalone/
func GetDataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", errors.Wrap(err, "create data directory")
	}
	return dataDir, nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", errors.Wrap(err, "create database directory")
	}
	return dbDir, nil
}
