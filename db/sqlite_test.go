package db

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordlys/portfolio/migrations"
)

func fakeSqliteStore(t *testing.T) (*SqliteStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return &SqliteStore{
		DB: sqlx.NewDb(db, "sqlmock"),
	}, mock
}

func TestSqliteStore_IncrementKudos(t *testing.T) {
	t.Parallel()
	s, mock := fakeSqliteStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertKudosQuery)).
		WithArgs("project-alpha", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(getKudosQuery)).
		WithArgs("project-alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectCommit()

	got, err := s.IncrementKudos("project-alpha")
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(4, got) {
		t.Error(cmp.Diff(4, got))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqliteStore_IncrementKudosRollsBackOnFailure(t *testing.T) {
	t.Parallel()
	s, mock := fakeSqliteStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertKudosQuery)).
		WithArgs("project-alpha", sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, err := s.IncrementKudos("project-alpha")
	assert.EqualError(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqliteStore_GetKudos(t *testing.T) {
	t.Parallel()
	s, mock := fakeSqliteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(getKudosQuery)).
		WithArgs("project-alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(getKudosQuery)).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	got, err := s.GetKudos("project-alpha")
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = s.GetKudos("unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Runs the real migrations against an in-memory database. Not parallel
// because goose keeps its configuration in globals.
func TestSqliteStore_Migrated(t *testing.T) {
	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() {
		conn.Close()
	})
	require.NoError(t, migrations.Apply(conn.DB))

	s := &SqliteStore{DB: conn}
	for want := 1; want <= 3; want++ {
		got, err := s.IncrementKudos("project-alpha")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := s.GetKudos("project-alpha")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = s.GetKudos("deep-agents-langchain")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	// Applying again is a no-op
	require.NoError(t, migrations.Apply(conn.DB))
}
