package ledger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Restore rebuilds a ledger from persisted state. Every invariant is checked;
// a violation returns an error wrapping ErrInvalidState and no ledger.
func Restore(columns []models.Column, clock Clock, nextID types.TaskID, tasks []models.Task) (*Ledger, error) {
	l, err := New(columns, clock)
	if err != nil {
		return nil, err
	}
	if nextID < 1 {
		return nil, fmt.Errorf("%w: next id %d must be at least 1", ErrInvalidState, nextID)
	}
	l.nextID = nextID

	for _, task := range tasks {
		if err := l.checkTask(task); err != nil {
			return nil, err
		}
		restored := task.Clone()
		l.tasks[restored.ID] = &restored
	}

	return l, nil
}

func (l *Ledger) checkTask(task models.Task) error {
	if task.ID < 1 || task.ID >= l.nextID {
		return fmt.Errorf("%w: task id %d outside [1, %d)", ErrInvalidState, task.ID, l.nextID)
	}
	if _, dup := l.tasks[task.ID]; dup {
		return fmt.Errorf("%w: duplicate task id %d", ErrInvalidState, task.ID)
	}
	if strings.TrimSpace(task.Name) == "" {
		return fmt.Errorf("%w: task %d has an empty name", ErrInvalidState, task.ID)
	}
	if !utf8.ValidString(task.Name) {
		return fmt.Errorf("%w: task %d name is not valid UTF-8", ErrInvalidState, task.ID)
	}
	if !l.validColumn(task.ColumnID) {
		return fmt.Errorf("%w: task %d is in unknown column %d", ErrInvalidState, task.ID, task.ColumnID)
	}
	if len(task.History) == 0 {
		return fmt.Errorf("%w: task %d has no history", ErrInvalidState, task.ID)
	}

	// Tasks start in the first column and only move forward. Columns may be
	// skipped when a middle column was dropped from the configuration.
	if first := task.History[0].ColumnID; first != l.columns[0].ID {
		return fmt.Errorf("%w: task %d history starts in column %d, not the first column", ErrInvalidState, task.ID, first)
	}
	for i, entry := range task.History {
		if !l.validColumn(entry.ColumnID) {
			return fmt.Errorf("%w: task %d history entry %d has unknown column %d", ErrInvalidState, task.ID, i, entry.ColumnID)
		}
		if i == 0 {
			continue
		}
		prev := task.History[i-1]
		if entry.ColumnID <= prev.ColumnID {
			return fmt.Errorf("%w: task %d history entry %d moves from column %d back to column %d",
				ErrInvalidState, task.ID, i, prev.ColumnID, entry.ColumnID)
		}
		if entry.EnteredAt.Before(prev.EnteredAt) {
			return fmt.Errorf("%w: task %d history entry %d goes back in time", ErrInvalidState, task.ID, i)
		}
	}

	if last := task.History[len(task.History)-1]; last.ColumnID != task.ColumnID {
		return fmt.Errorf("%w: task %d is in column %d but its history ends in column %d",
			ErrInvalidState, task.ID, task.ColumnID, last.ColumnID)
	}

	return nil
}
