// Package storage defines the Storage interface: the contract any
// database backend must satisfy to feed the dashboard.
//
// Handlers depend only on this interface, so the MySQL backend used in
// production and the SQLite backend used locally are interchangeable,
// and tests can pass a fake.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/people-dashboard/internal/types"
)

// PeopleQuery is the one statement the dashboard runs. Rows are read
// positionally, so the table only has to start with (id, name, age).
const PeopleQuery = "SELECT * FROM people"

// Storage is the database contract.
type Storage interface {
	// GetPeople runs PeopleQuery and returns every row. It returns an
	// empty slice (not nil) when the table is empty. Any failure aborts
	// the whole fetch; there are no partial results.
	GetPeople(ctx context.Context) ([]types.Person, error)

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// Error kinds. Match them with errors.Is.
var (
	// ErrUnavailable covers connectivity and authentication failures.
	ErrUnavailable = errors.New("database unavailable")
	// ErrQuery means the server rejected the statement, e.g. a missing table.
	ErrQuery = errors.New("query failed")
	// ErrDataShape means a row could not be read as (id, name, age).
	ErrDataShape = errors.New("unexpected row shape")
)

// Error is returned by every Storage method. It carries one of the kinds
// above together with the driver error that caused it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Wrap builds an *Error. A nil err yields nil, and an err that is
// already an *Error is returned unchanged.
func Wrap(op string, kind error, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Kind reports which of ErrUnavailable, ErrQuery or ErrDataShape err
// carries, or nil for anything else.
func Kind(err error) error {
	for _, kind := range []error{ErrUnavailable, ErrQuery, ErrDataShape} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// ScanPeople reads rows positionally into people. The first three
// columns are id, name and age; any further columns are read and
// dropped. Values are kept as the driver returned them, NULL included,
// with []byte copied into a string. rows is always closed.
//
// A result with fewer than three columns is ErrDataShape. Failures from
// the cursor itself are handed to classify, which lets each backend map
// its driver errors.
func ScanPeople(rows *sql.Rows, classify func(op string, err error) error) ([]types.Person, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classify("ScanPeople: columns", err)
	}
	if len(cols) < 3 {
		return nil, Wrap("ScanPeople: columns", ErrDataShape,
			fmt.Errorf("expected at least 3 columns (id, name, age), got %d", len(cols)))
	}

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	people := make([]types.Person, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, classify("ScanPeople: scan row", err)
		}
		people = append(people, types.Person{
			ID:   normalize(values[0]),
			Name: normalize(values[1]),
			Age:  normalize(values[2]),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, classify("ScanPeople: rows iteration", err)
	}

	return people, nil
}

// normalize detaches driver-owned byte slices from the row buffer.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
