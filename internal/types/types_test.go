package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonString(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{"alice", Person{ID: int64(1), Name: "Alice", Age: int64(30)}, "ID: 1, Name: Alice, Age: 30"},
		{"bob", Person{ID: int64(2), Name: "Bob", Age: int64(25)}, "ID: 2, Name: Bob, Age: 25"},
		{"empty name", Person{ID: int64(7), Name: "", Age: int64(0)}, "ID: 7, Name: , Age: 0"},
		{"unicode", Person{ID: int64(3), Name: "Zoë", Age: int64(41)}, "ID: 3, Name: Zoë, Age: 41"},
		{"null name", Person{ID: int64(2), Name: nil, Age: int64(25)}, "ID: 2, Name: NULL, Age: 25"},
		{"all null", Person{}, "ID: NULL, Name: NULL, Age: NULL"},
		{"text id", Person{ID: "a1", Name: "Alice", Age: int64(30)}, "ID: a1, Name: Alice, Age: 30"},
		{"real age", Person{ID: int64(1), Name: "Alice", Age: 30.5}, "ID: 1, Name: Alice, Age: 30.5"},
		{"raw bytes", Person{ID: []byte("9"), Name: []byte("Carol"), Age: []byte("51")}, "ID: 9, Name: Carol, Age: 51"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.person.String())
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "1234567.891", FormatValue(1234567.891))
	assert.Equal(t, "2.5", FormatValue(float32(2.5)))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-03-01 12:30:00", FormatValue(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
}

func TestPersonJSON(t *testing.T) {
	out, err := json.Marshal(Person{ID: int64(1), Name: "Alice", Age: int64(30)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Alice","age":30}`, string(out))

	out, err = json.Marshal(Person{ID: "a1", Name: nil, Age: 30.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a1","name":null,"age":30.5}`, string(out))
}
