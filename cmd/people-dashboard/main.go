// main is the entry point of the people dashboard.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Open the storage backend (MySQL, or SQLite for local work)
//  4. Register the HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down, then close the database pool
//
// RUNNING THE SERVER:
//
//	go run ./cmd/people-dashboard --config=config/local.yaml
//
// or, relying on defaults and the environment only:
//
//	DB_HOST=127.0.0.1 go run ./cmd/people-dashboard
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/people-dashboard/internal/config"
	"github.com/aanand-mishra/people-dashboard/internal/http/handlers/dashboard"
	"github.com/aanand-mishra/people-dashboard/internal/storage"
	"github.com/aanand-mishra/people-dashboard/internal/storage/mysql"
	"github.com/aanand-mishra/people-dashboard/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting people-dashboard",
		slog.String("env", cfg.Env),
		slog.String("driver", cfg.Database.Driver),
	)

	store, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// An unreachable database is not fatal: each page load tries again.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Dashboard.QueryTimeout)
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("database not reachable yet", slog.String("error", err.Error()))
	} else {
		log.Info("storage initialised")
	}
	cancelPing()

	// Route table:
	//   GET /             → rendered dashboard
	//   GET /api/people   → the same rows as JSON
	//   GET /healthz      → database ping
	//   GET /metrics      → Prometheus metrics
	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", dashboard.Page(store, cfg.Dashboard))
	router.HandleFunc("GET /api/people", dashboard.People(store, cfg.Dashboard))
	router.HandleFunc("GET /healthz", dashboard.Health(store, cfg.Dashboard))
	router.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage picks the backend named by cfg.Database.Driver.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Dashboard.QueryTimeout)
			defer cancel()
			if err := s.Migrate(ctx); err != nil {
				return nil, errors.Join(err, s.Close())
			}
		}
		return s, nil
	case config.DriverMySQL:
		return mysql.New(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// dev: human-readable text output at DEBUG level.
// staging/prod: JSON output, DEBUG in staging and INFO in prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
