package storage

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-dashboard/internal/types"
)

var errCursor = errors.New("connection reset")

func classifyAsQuery(op string, err error) error {
	return Wrap(op, ErrQuery, err)
}

func TestScanPeople(t *testing.T) {
	tests := []struct {
		name     string
		rows     func() *sqlmock.Rows
		want     []types.Person
		wantKind error
	}{
		{
			name: "two rows in order",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"}).
					AddRow(int64(1), "Alice", int64(30)).
					AddRow(int64(2), "Bob", int64(25))
			},
			want: []types.Person{
				{ID: int64(1), Name: "Alice", Age: int64(30)},
				{ID: int64(2), Name: "Bob", Age: int64(25)},
			},
		},
		{
			name: "empty table",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"})
			},
			want: []types.Person{},
		},
		{
			name: "extra columns are ignored",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age", "email"}).
					AddRow(int64(1), "Alice", int64(30), "alice@example.com")
			},
			want: []types.Person{{ID: int64(1), Name: "Alice", Age: int64(30)}},
		},
		{
			name: "text protocol values",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"}).
					AddRow([]byte("9"), []byte("Carol"), []byte("51"))
			},
			want: []types.Person{{ID: "9", Name: "Carol", Age: "51"}},
		},
		{
			name: "null name keeps the other rows",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"}).
					AddRow(int64(1), "Alice", int64(30)).
					AddRow(int64(2), nil, int64(25))
			},
			want: []types.Person{
				{ID: int64(1), Name: "Alice", Age: int64(30)},
				{ID: int64(2), Name: nil, Age: int64(25)},
			},
		},
		{
			name: "text id and real age",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"}).
					AddRow("a1", "Alice", 30.5)
			},
			want: []types.Person{{ID: "a1", Name: "Alice", Age: 30.5}},
		},
		{
			name: "too few columns",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alice")
			},
			wantKind: ErrDataShape,
		},
		{
			name: "cursor error",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "name", "age"}).
					AddRow(int64(1), "Alice", int64(30)).
					AddRow(int64(2), "Bob", int64(25)).
					RowError(1, errCursor)
			},
			wantKind: ErrQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta(PeopleQuery)).WillReturnRows(tc.rows())

			rows, err := db.Query(PeopleQuery)
			require.NoError(t, err)

			got, err := ScanPeople(rows, classifyAsQuery)
			if tc.wantKind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantKind)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, tc.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("dial tcp: lookup db: no such host")
	err := Wrap("GetPeople: query", ErrUnavailable, cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrQuery)
	assert.Equal(t, "GetPeople: query: database unavailable: dial tcp: lookup db: no such host", err.Error())

	// Already classified errors keep their first kind.
	rewrapped := Wrap("outer", ErrQuery, err)
	assert.Same(t, err, rewrapped)

	wrapped := fmt.Errorf("render: %w", err)
	assert.Equal(t, ErrUnavailable, Kind(wrapped))

	assert.Nil(t, Wrap("op", ErrQuery, nil))
	assert.Nil(t, Kind(errors.New("plain")))
}
