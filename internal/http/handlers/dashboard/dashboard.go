// Package dashboard contains the HTTP handlers that show the people
// table.
//
// Every handler is a factory: it receives its dependencies once at
// route registration and returns the http.HandlerFunc that runs on
// every request.
//
//	router.HandleFunc("GET /{$}", dashboard.Page(store, cfg.Dashboard))
//
// Each page load runs the whole fetch from scratch. A failing database
// turns into an error message on that page only; the next load tries
// again.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/people-dashboard/internal/config"
	"github.com/aanand-mishra/people-dashboard/internal/metrics"
	"github.com/aanand-mishra/people-dashboard/internal/storage"
	"github.com/aanand-mishra/people-dashboard/internal/types"
	"github.com/aanand-mishra/people-dashboard/internal/utils/response"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title  string
	People []types.Person
	Error  string
}

// Page handles GET /
// Fetches every row and renders the HTML dashboard: the title, the
// "Fetched Data:" label and one "ID: .., Name: .., Age: .." line per
// row, or the title and a single "Error: ..." message.
//
// Status: 200 on success, 503 when the database is unavailable, 500 for
// any other failure.
func Page(store storage.Storage, opts config.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("rendering dashboard")

		data := pageData{Title: opts.Title}
		status := http.StatusOK

		people, err := fetch(r.Context(), store, opts.QueryTimeout, "page")
		if err != nil {
			data.Error = err.Error()
			status = statusFor(err)
		} else {
			data.People = people
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			slog.Error("error rendering dashboard", slog.String("error", err.Error()))
			http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}

// People handles GET /api/people
// Returns the same rows as the page as a JSON array, [] when the table
// is empty.
func People(store storage.Storage, opts config.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all people")

		people, err := fetch(r.Context(), store, opts.QueryTimeout, "api")
		if err != nil {
			response.WriteJSON(w, statusFor(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, people)
	}
}

// Health handles GET /healthz
func Health(store storage.Storage, opts config.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), opts.QueryTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}

func fetch(ctx context.Context, store storage.Storage, timeout time.Duration, handler string) ([]types.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	people, err := store.GetPeople(ctx)
	took := time.Since(start)

	metrics.ObserveFetch(handler, outcome(err), took, len(people))

	if err != nil {
		slog.Error("error fetching people",
			slog.String("handler", handler),
			slog.Duration("took", took),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Debug("fetched people",
		slog.String("handler", handler),
		slog.Int("rows", len(people)),
		slog.Duration("took", took))
	return people, nil
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	switch storage.Kind(err) {
	case storage.ErrUnavailable:
		return metrics.OutcomeUnavailable
	case storage.ErrQuery:
		return metrics.OutcomeQuery
	case storage.ErrDataShape:
		return metrics.OutcomeDataShape
	default:
		return metrics.OutcomeError
	}
}

func statusFor(err error) int {
	if errors.Is(err, storage.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
