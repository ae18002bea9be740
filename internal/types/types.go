// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers and storage can both import types without depending on
// each other.
package types

import (
	"fmt"
	"strconv"
	"time"
)

// Null is how a SQL NULL is shown on the dashboard.
const Null = "NULL"

// Person is one row of the people table, read positionally as
// (id, name, age).
//
// The fields hold whatever the driver returned for that column (int64,
// float64, string, time.Time or nil for NULL) so that no row is lost to
// a type mismatch. JSON keeps the native type; NULL encodes as null.
//
// A Person only lives for the duration of a single request: storage
// builds it from the result set, a handler renders it, and it is
// dropped with the response.
type Person struct {
	ID   any `json:"id"`
	Name any `json:"name"`
	Age  any `json:"age"`
}

// String renders the dashboard line for p, e.g.
//
//	ID: 1, Name: Alice, Age: 30
func (p Person) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Age: %s", FormatValue(p.ID), FormatValue(p.Name), FormatValue(p.Age))
}

// FormatValue renders a column value without losing precision.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return Null
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
