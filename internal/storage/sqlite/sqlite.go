// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface, used for local development without a
// MySQL server.
//
// SQLite stores everything in a single file on disk. There is no
// network and no separate server process, so the only failures that
// count as "unavailable" are files that cannot be opened or read.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/people-dashboard/internal/config"
	"github.com/aanand-mishra/people-dashboard/internal/storage"
	"github.com/aanand-mishra/people-dashboard/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Database.Path. The file is not
// touched until the first query.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Migrate creates the people table if it does not already exist.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.Db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS people (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT    NOT NULL,
			age  INTEGER NOT NULL
		)
	`)
	if err != nil {
		return classify("Migrate: create table", err)
	}

	return nil
}

// CreatePerson inserts a row and returns its generated id.
func (s *SQLite) CreatePerson(ctx context.Context, name string, age int) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx, "INSERT INTO people (name, age) VALUES (?, ?)")
	if err != nil {
		return 0, classify("CreatePerson: prepare", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, name, age)
	if err != nil {
		return 0, classify("CreatePerson: exec", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreatePerson: last insert id: %w", err)
	}

	return lastID, nil
}

// GetPeople runs storage.PeopleQuery and reads every row.
func (s *SQLite) GetPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := s.Db.QueryContext(ctx, storage.PeopleQuery)
	if err != nil {
		return nil, classify("GetPeople: query", err)
	}

	return storage.ScanPeople(rows, classify)
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.Db.PingContext(ctx); err != nil {
		return classify("Ping", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

func classify(op string, err error) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrIoErr:
			return storage.Wrap(op, storage.ErrUnavailable, err)
		default:
			return storage.Wrap(op, storage.ErrQuery, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrConnDone) {
		return storage.Wrap(op, storage.ErrUnavailable, err)
	}

	return storage.Wrap(op, storage.ErrQuery, err)
}
