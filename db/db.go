package db

import (
	"log/slog"
)

// Store keeps a running kudos count per content slug
type Store interface {
	IncrementKudos(slug string) (int, error)
	GetKudos(slug string) (int, error)
}

// Initialize opens the SQLite store at path and migrates it. An empty path
// gives an in-memory store that forgets everything on restart.
func Initialize(path string) (Store, error) {
	if path == "" {
		slog.Info("No database path set, kudos will be kept in memory")
		return NewMemoryStore(), nil
	}
	store, err := NewSqliteStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.ApplyMigrations(); err != nil {
		return nil, err
	}
	slog.Info("Initialised DB connection", slog.String("path", path))
	return store, nil
}
