package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nordlys/portfolio/migrations"

	_ "modernc.org/sqlite"
)

const (
	upsertKudosQuery = `
	INSERT INTO kudos (slug, count, updated_at)
	VALUES (?, 1, ?)
	ON CONFLICT (slug) DO UPDATE SET
	count = count + 1,
	updated_at = excluded.updated_at
	`
	getKudosQuery = "SELECT count FROM kudos WHERE slug = ?"
)

type SqliteStore struct {
	DB *sqlx.DB
}

func NewSqliteStore(dsn string) (*SqliteStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{
		DB: db,
	}, nil
}

func (s *SqliteStore) ApplyMigrations() error {
	if err := migrations.Apply(s.DB.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// IncrementKudos bumps the count for slug and reads it back in the same
// transaction
func (s *SqliteStore) IncrementKudos(slug string) (int, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(upsertKudosQuery, slug, time.Now().Unix()); err != nil {
		return 0, err
	}
	var count int
	if err := tx.Get(&count, getKudosQuery, slug); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SqliteStore) GetKudos(slug string) (int, error) {
	var count int
	err := s.DB.Get(&count, getKudosQuery, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
