// Package ledger holds the in-memory kanban board: tasks, their current
// column and the history of every column they entered.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Clock returns the current time. It is supplied by the surrounding process.
type Clock func() time.Time

// Ledger owns every task on the board. It performs no I/O.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	columns []models.Column
	tasks   map[types.TaskID]*models.Task
	nextID  types.TaskID
	clock   Clock
}

// New creates an empty ledger for the given column sequence.
// A nil clock defaults to time.Now.
func New(columns []models.Column, clock Clock) (*Ledger, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if clock == nil {
		clock = time.Now
	}

	cols := make([]models.Column, len(columns))
	for i, col := range columns {
		cols[i] = models.Column{ID: types.ColumnID(i), Name: col.Name}
	}

	return &Ledger{
		columns: cols,
		tasks:   make(map[types.TaskID]*models.Task),
		nextID:  1,
		clock:   clock,
	}, nil
}

// Add creates a task in the first column and returns its ID
func (l *Ledger) Add(name string) (types.TaskID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: task name cannot be empty", ErrInvalidInput)
	}
	if !utf8.ValidString(name) {
		return 0, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidInput, name)
	}
	if l.nextID == math.MaxInt {
		return 0, ErrIDsExhausted
	}

	id := l.nextID
	first := l.columns[0].ID
	l.tasks[id] = &models.Task{
		ID:       id,
		Name:     name,
		ColumnID: first,
		History:  []models.HistoryEntry{{ColumnID: first, EnteredAt: l.now()}},
	}
	l.nextID++

	return id, nil
}

// Advance moves a task to the next column and records the move in its history
func (l *Ledger) Advance(id types.TaskID) error {
	task, ok := l.tasks[id]
	if !ok {
		return fmt.Errorf("advance task %d: %w", id, ErrTaskNotFound)
	}
	if task.ColumnID == l.Terminal() {
		return fmt.Errorf("advance task %d: %w", id, ErrTerminalColumn)
	}

	next := task.ColumnID + 1
	enteredAt := l.now()
	// Keep history timestamps non-decreasing even if the wall clock steps back
	if last := task.EnteredCurrentAt(); enteredAt.Before(last) {
		enteredAt = last
	}

	task.ColumnID = next
	task.History = append(task.History, models.HistoryEntry{ColumnID: next, EnteredAt: enteredAt})
	return nil
}

// Remove deletes a task and its history. The ID is never handed out again.
func (l *Ledger) Remove(id types.TaskID) error {
	if _, ok := l.tasks[id]; !ok {
		return fmt.Errorf("remove task %d: %w", id, ErrTaskNotFound)
	}
	delete(l.tasks, id)
	return nil
}

// ClearDone removes every task in the terminal column and returns how many
// were removed
func (l *Ledger) ClearDone() int {
	terminal := l.Terminal()
	removed := 0
	for id, task := range l.tasks {
		if task.ColumnID == terminal {
			delete(l.tasks, id)
			removed++
		}
	}
	return removed
}

// List returns snapshots of all tasks ordered by ascending ID
func (l *Ledger) List() []models.Task {
	ids := make([]types.TaskID, 0, len(l.tasks))
	for id := range l.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, l.tasks[id].Clone())
	}
	return tasks
}

// ByColumn groups the List snapshot by column, keeping ascending ID order
// inside each column. Every column has an entry, possibly empty.
func (l *Ledger) ByColumn() map[types.ColumnID][]models.Task {
	grouped := make(map[types.ColumnID][]models.Task, len(l.columns))
	for _, col := range l.columns {
		grouped[col.ID] = []models.Task{}
	}
	for _, task := range l.List() {
		grouped[task.ColumnID] = append(grouped[task.ColumnID], task)
	}
	return grouped
}

// Get returns a snapshot of a single task
func (l *Ledger) Get(id types.TaskID) (models.Task, error) {
	task, ok := l.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, ErrTaskNotFound)
	}
	return task.Clone(), nil
}

// Columns returns a copy of the column sequence
func (l *Ledger) Columns() []models.Column {
	cols := make([]models.Column, len(l.columns))
	copy(cols, l.columns)
	return cols
}

// Column returns the column with the given ID
func (l *Ledger) Column(id types.ColumnID) (models.Column, bool) {
	if !l.validColumn(id) {
		return models.Column{}, false
	}
	return l.columns[id], true
}

// Terminal returns the ID of the last column
func (l *Ledger) Terminal() types.ColumnID {
	return l.columns[len(l.columns)-1].ID
}

// NextID returns the ID the next added task will get
func (l *Ledger) NextID() types.TaskID {
	return l.nextID
}

// Len returns the number of tasks on the board
func (l *Ledger) Len() int {
	return len(l.tasks)
}

func (l *Ledger) now() time.Time {
	// UTC drops the monotonic reading so persisted and in-memory times compare equal
	return l.clock().UTC()
}

func (l *Ledger) validColumn(id types.ColumnID) bool {
	return id >= 0 && int(id) < len(l.columns)
}
