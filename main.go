// server/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/kanban-server/board"
	"github.com/ViniZap4/kanban-server/config"
	"github.com/ViniZap4/kanban-server/filesystem"
	httphandlers "github.com/ViniZap4/kanban-server/http"
	"github.com/ViniZap4/kanban-server/postgres"
	"github.com/ViniZap4/kanban-server/sqlite"
	"github.com/ViniZap4/kanban-server/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Logger = newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer closeStore()

	report, err := store.Seed(ctx, st, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize data")
	}
	if report.Tasks || report.Journal {
		log.Info().Bool("tasks", report.Tasks).Bool("journal", report.Journal).Msg("seeded initial documents")
	}
	for _, err := range report.Unreadable {
		log.Warn().Err(err).Msg("existing document is unreadable, requests using it will fail")
	}

	ids := board.NewIDGenerator(time.Now)
	ids.UUIDTasks = cfg.TaskIDFormat == "uuid"

	server := httphandlers.NewServer(board.NewService(st, board.WithIDGenerator(ids)), log.Logger)
	app := httphandlers.NewApp(server, cfg.PublicDir)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Str("data_dir", cfg.DataDir).Msg("kanban server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemory(), noop, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, noop, err
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, logClose(config.DriverSQLite, s.Close), nil

	case config.DriverPostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, noop, err
		}
		s, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case config.DriverFile:
		s, err := filesystem.NewStore(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// logClose wraps a Close method so its error is logged when deferred.
func logClose(driver string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Str("driver", driver).Msg("failed to close store")
		}
	}
}
