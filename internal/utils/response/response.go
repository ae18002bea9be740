// Package response provides helpers for writing consistent JSON HTTP
// responses.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the standard envelope returned for error cases and
// health checks:
//
//	{ "status": "error", "error": "GetPeople: query: database unavailable: ..." }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data as JSON with the given HTTP status code.
// Header() → WriteHeader() → body, in that order.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// OK is the body of a successful health check.
func OK() Response {
	return Response{Status: StatusOK}
}
