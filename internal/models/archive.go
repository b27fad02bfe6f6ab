package models

import "time"

// ArchivedHistoryEntry is a history entry of an archived task.
// Column names are stored instead of IDs since the column configuration
// may change after the task was archived.
type ArchivedHistoryEntry struct {
	ColumnName string
	EnteredAt  time.Time
}

// ArchivedTask is a task that was removed from the board by a clear,
// together with the column history it had at that moment
type ArchivedTask struct {
	ArchiveID   int
	TaskID      int
	Name        string
	FinalColumn string
	ArchivedAt  time.Time
	ArchivedBy  string
	History     []ArchivedHistoryEntry
}

// NewArchivedTask captures a board task for the archive, resolving its
// column ids against the board's columns
func NewArchivedTask(task Task, columns []Column, by string, at time.Time) ArchivedTask {
	name := func(id int) string {
		if id >= 0 && id < len(columns) {
			return columns[id].Name
		}
		return ""
	}

	history := make([]ArchivedHistoryEntry, len(task.History))
	for i, entry := range task.History {
		history[i] = ArchivedHistoryEntry{
			ColumnName: name(entry.ColumnID.ToInt()),
			EnteredAt:  entry.EnteredAt,
		}
	}

	return ArchivedTask{
		TaskID:      task.ID.ToInt(),
		Name:        task.Name,
		FinalColumn: name(task.ColumnID.ToInt()),
		ArchivedAt:  at,
		ArchivedBy:  by,
		History:     history,
	}
}

// CompletedAt is when the task entered the column it was archived from.
// Together with TaskID it identifies one archived run of a task.
func (t ArchivedTask) CompletedAt() time.Time {
	if len(t.History) == 0 {
		return t.ArchivedAt
	}
	return t.History[len(t.History)-1].EnteredAt
}
