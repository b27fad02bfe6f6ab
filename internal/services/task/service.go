// Package task exposes the board operations used by the command layer.
// Every change is written to the board store before the call returns.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/ledger"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, id types.TaskID) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListArchived(ctx context.Context) ([]models.ArchivedTask, error)
	Columns() []models.Column

	// Write operations
	CreateTask(ctx context.Context, name string) (models.Task, error)
	AdvanceTask(ctx context.Context, id types.TaskID) (models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	ClearDone(ctx context.Context) (int, error)

	// Save writes the board, e.g. before leaving the shell
	Save(ctx context.Context) error
}

// Saver persists a ledger; implemented by store.BoardStore
type Saver interface {
	Save(l *ledger.Ledger) error
}

// Archiver keeps cleared tasks; implemented by database.ArchiveRepository
type Archiver interface {
	ArchiveTasks(ctx context.Context, tasks []models.ArchivedTask) error
	ListArchived(ctx context.Context) ([]models.ArchivedTask, error)
}

// service implements Service interface
type service struct {
	board     *ledger.Ledger
	store     Saver
	archive   Archiver
	user      string
	clock     ledger.Clock
	protected bool
}

// NewService creates a new task service over an already loaded ledger
func NewService(board *ledger.Ledger, store Saver, opts ...Option) Service {
	s := &service{
		board: board,
		store: store,
		clock: defaultClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask adds a task to the first column
func (s *service) CreateTask(ctx context.Context, name string) (models.Task, error) {
	id, err := s.board.Add(name)
	if err != nil {
		return models.Task{}, err
	}

	task, err := s.board.Get(id)
	if err != nil {
		return models.Task{}, err
	}

	slog.Info("task created", "task_id", id, "name", task.Name)
	return task, s.persist(ctx)
}

// AdvanceTask moves a task to the next column and returns its new state
func (s *service) AdvanceTask(ctx context.Context, id types.TaskID) (models.Task, error) {
	if err := s.board.Advance(id); err != nil {
		slog.Debug("advance rejected", "task_id", id, "error", err)
		return models.Task{}, err
	}

	task, err := s.board.Get(id)
	if err != nil {
		return models.Task{}, err
	}

	col, _ := s.board.Column(task.ColumnID)
	slog.Info("task advanced", "task_id", id, "column", col.Name)
	return task, s.persist(ctx)
}

// DeleteTask removes a task from the board
func (s *service) DeleteTask(ctx context.Context, id types.TaskID) error {
	if err := s.board.Remove(id); err != nil {
		return err
	}

	slog.Info("task removed", "task_id", id)
	return s.persist(ctx)
}

// ClearDone archives (when enabled) and then removes every task in the
// terminal column. If archiving fails the board is left untouched.
func (s *service) ClearDone(ctx context.Context) (int, error) {
	done := s.board.ByColumn()[s.board.Terminal()]
	if len(done) == 0 {
		return 0, nil
	}

	if s.archive != nil {
		at := s.clock().UTC()
		columns := s.board.Columns()
		archived := make([]models.ArchivedTask, len(done))
		for i, task := range done {
			archived[i] = models.NewArchivedTask(task, columns, s.user, at)
		}
		if err := s.archive.ArchiveTasks(ctx, archived); err != nil {
			return 0, fmt.Errorf("failed to archive cleared tasks: %w", err)
		}
	}

	removed := s.board.ClearDone()
	slog.Info("terminal column cleared", "count", removed, "archived", s.archive != nil)
	return removed, s.persist(ctx)
}

// GetTask returns a snapshot of a single task
func (s *service) GetTask(ctx context.Context, id types.TaskID) (models.Task, error) {
	return s.board.Get(id)
}

// ListTasks returns all tasks in ascending id order
func (s *service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.board.List(), nil
}

// ListArchived returns the archived tasks, oldest clear first
func (s *service) ListArchived(ctx context.Context) ([]models.ArchivedTask, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	tasks, err := s.archive.ListArchived(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived tasks: %w", err)
	}
	return tasks, nil
}

// Columns returns the board's columns in workflow order
func (s *service) Columns() []models.Column {
	return s.board.Columns()
}

// Save writes the board unless it is protected and unchanged
func (s *service) Save(ctx context.Context) error {
	if s.protected {
		slog.Warn("board unchanged since an unreadable file was ignored, not saving")
		return nil
	}
	return s.save(ctx)
}

// persist is called after every change
func (s *service) persist(ctx context.Context) error {
	s.protected = false
	return s.save(ctx)
}

func (s *service) save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := s.store.Save(s.board); err != nil {
		slog.Error("failed to save board", "error", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	slog.Debug("board saved", "tasks", s.board.Len())
	return nil
}
