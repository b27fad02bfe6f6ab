package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/ledger"
	taskservice "github.com/thenoetrevino/kanban/internal/services/task"
	"github.com/thenoetrevino/kanban/internal/store"
	"github.com/thenoetrevino/kanban/internal/user"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	Config *config.Config

	// Service layer (business logic)
	TaskService taskservice.Service

	// IgnoredLoadError is the board load error that was skipped because
	// ignore-corrupt was requested; nil when the board loaded normally
	IgnoredLoadError error

	// Archive database, nil when archiving is disabled
	db *sql.DB
}

// New loads the board named by cfg and wires the services around it.
// This is the single entry point for creating the application container.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	options := &appConfig{clock: defaultClock}
	for _, opt := range opts {
		opt(options)
	}

	columns := cfg.BoardColumns()
	boards := store.New(cfg.BoardFile, columns, options.clock)

	a := &App{Config: cfg}
	serviceOpts := []taskservice.Option{taskservice.WithClock(options.clock)}

	board, err := boards.Load()
	switch {
	case err == nil:
	case options.ignoreCorrupt && errors.Is(err, store.ErrCorruptStore):
		slog.Warn("ignoring unreadable board file", "path", cfg.BoardFile, "error", err)
		a.IgnoredLoadError = err
		if board, err = ledger.New(columns, options.clock); err != nil {
			return nil, err
		}
		serviceOpts = append(serviceOpts, taskservice.WithProtectedBoard())
	default:
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	if cfg.ArchiveEnabled() {
		db, err := database.InitDB(ctx, cfg.ArchiveFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		a.db = db
		username := options.user
		if username == "" {
			username = user.Name()
		}
		serviceOpts = append(serviceOpts, taskservice.WithArchive(database.NewArchiveRepository(db), username))
	}

	a.TaskService = taskservice.NewService(board, boards, serviceOpts...)
	slog.Debug("app initialized", "board", cfg.BoardFile, "tasks", board.Len(), "archive", a.db != nil)
	return a, nil
}

// Close releases the archive database
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
