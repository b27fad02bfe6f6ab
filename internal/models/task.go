package models

import (
	"time"

	"github.com/thenoetrevino/kanban/internal/types"
)

// HistoryEntry records the moment a task entered a column
type HistoryEntry struct {
	ColumnID  types.ColumnID
	EnteredAt time.Time
}

// Task represents a single task on the kanban board.
// History holds one entry per column the task has entered, oldest first;
// the last entry always matches ColumnID.
type Task struct {
	ID       types.TaskID
	Name     string
	ColumnID types.ColumnID
	History  []HistoryEntry
}

// GetID returns the task ID as an int (used by quiet CLI output)
func (t Task) GetID() int {
	return t.ID.ToInt()
}

// Clone returns a deep copy of the task so callers never share history
func (t Task) Clone() Task {
	history := make([]HistoryEntry, len(t.History))
	copy(history, t.History)
	t.History = history
	return t
}

// CreatedAt is the time the task entered its first column
func (t Task) CreatedAt() time.Time {
	if len(t.History) == 0 {
		return time.Time{}
	}
	return t.History[0].EnteredAt
}

// EnteredCurrentAt is the time the task entered its current column
func (t Task) EnteredCurrentAt() time.Time {
	if len(t.History) == 0 {
		return time.Time{}
	}
	return t.History[len(t.History)-1].EnteredAt
}
