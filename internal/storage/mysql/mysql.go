// Package mysql provides the MySQL-backed implementation of the
// storage.Storage interface on top of database/sql and
// github.com/go-sql-driver/mysql.
//
// Opening is lazy: New never dials the server, so the process starts
// even when the database is down, and every page load tries again.
package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"

	"github.com/aanand-mishra/people-dashboard/internal/config"
	"github.com/aanand-mishra/people-dashboard/internal/storage"
	"github.com/aanand-mishra/people-dashboard/internal/types"
)

// Server error numbers that mean the session itself was refused.
const (
	erDBAccessDenied = 1044
	erAccessDenied   = 1045
	erBadDB          = 1049
)

// MySQL is the concrete implementation of storage.Storage.
type MySQL struct {
	Db *sql.DB
}

// New prepares a connection pool for cfg.Database.
func New(cfg *config.Config) (*MySQL, error) {
	db, err := sql.Open("mysql", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("mysql.New: open db: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened *sql.DB.
func NewWithDB(db *sql.DB) *MySQL {
	return &MySQL{Db: db}
}

// GetPeople runs storage.PeopleQuery and reads every row.
func (m *MySQL) GetPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := m.Db.QueryContext(ctx, storage.PeopleQuery)
	if err != nil {
		return nil, classify("GetPeople: query", err)
	}

	return storage.ScanPeople(rows, classify)
}

func (m *MySQL) Ping(ctx context.Context) error {
	if err := m.Db.PingContext(ctx); err != nil {
		return classify("Ping", err)
	}
	return nil
}

func (m *MySQL) Close() error {
	return m.Db.Close()
}

// classify maps a driver error onto the storage error kinds.
func classify(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erDBAccessDenied, erAccessDenied, erBadDB:
			return storage.Wrap(op, storage.ErrUnavailable, err)
		default:
			return storage.Wrap(op, storage.ErrQuery, err)
		}
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, sql.ErrConnDone):
		return storage.Wrap(op, storage.ErrUnavailable, err)
	}

	return storage.Wrap(op, storage.ErrQuery, err)
}
