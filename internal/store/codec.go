package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/thenoetrevino/kanban/internal/ledger"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/types"
)

// FormatVersion is the newest board file version this package reads and writes
const FormatVersion = 1

const (
	kindBoard = "board"
	kindTask  = "task"
)

// maxLineSize bounds a single record; long histories still fit comfortably
const maxLineSize = 16 * 1024 * 1024

// headerRecord is the first line of a board file
type headerRecord struct {
	Kind    string   `json:"kind"`
	Version int      `json:"version"`
	NextID  int      `json:"next_id"`
	Columns []string `json:"columns"`
}

// taskRecord is one task line. Columns are stored by name.
type taskRecord struct {
	Kind    string          `json:"kind"`
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Column  string          `json:"column"`
	History []historyRecord `json:"history"`
}

type historyRecord struct {
	Column string    `json:"column"`
	At     time.Time `json:"at"`
}

// Encode writes the ledger as JSON lines: a board header followed by one
// line per task in ascending ID order
func Encode(w io.Writer, l *ledger.Ledger) error {
	columns := l.Columns()

	header := headerRecord{
		Kind:    kindBoard,
		Version: FormatVersion,
		NextID:  l.NextID().ToInt(),
		Columns: models.ColumnNames(columns),
	}
	if err := writeLine(w, header); err != nil {
		return fmt.Errorf("failed to write board header: %w", err)
	}

	for _, task := range l.List() {
		record := taskRecord{
			Kind:    kindTask,
			ID:      task.ID.ToInt(),
			Name:    task.Name,
			Column:  columns[task.ColumnID].Name,
			History: make([]historyRecord, len(task.History)),
		}
		for i, entry := range task.History {
			record.History[i] = historyRecord{Column: columns[entry.ColumnID].Name, At: entry.EnteredAt}
		}
		if err := writeLine(w, record); err != nil {
			return fmt.Errorf("failed to write task %d: %w", task.ID, err)
		}
	}

	return nil
}

func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Decode reads a board written by Encode and rebuilds the ledger for the
// configured columns. Any malformed or inconsistent record fails the whole
// decode with a *CorruptError; nothing is skipped or repaired.
// name is only used in error messages.
func Decode(r io.Reader, name string, columns []models.Column, clock ledger.Clock) (*ledger.Ledger, error) {
	boardSchema, taskSchema, err := schemas()
	if err != nil {
		return nil, fmt.Errorf("failed to compile board schema: %w", err)
	}

	columnIDs := make(map[string]types.ColumnID, len(columns))
	for i, col := range columns {
		columnIDs[col.Name] = types.ColumnID(i)
	}

	var (
		header *headerRecord
		tasks  []models.Task
		lineNo int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, corrupt(name, lineNo, "invalid JSON: %v", err)
		}

		if header == nil {
			if err := boardSchema.Validate(raw); err != nil {
				return nil, corrupt(name, lineNo, "invalid board header: %v", err)
			}
			header = &headerRecord{}
			if err := json.Unmarshal(line, header); err != nil {
				return nil, corrupt(name, lineNo, "invalid board header: %v", err)
			}
			if header.Version > FormatVersion {
				return nil, corrupt(name, lineNo, "unsupported format version %d (newest supported is %d)", header.Version, FormatVersion)
			}
			if !slices.Equal(header.Columns, models.ColumnNames(columns)) {
				slog.Warn("board file columns differ from configured columns",
					"file", name, "file_columns", header.Columns, "configured", models.ColumnNames(columns))
			}
			continue
		}

		if err := taskSchema.Validate(raw); err != nil {
			return nil, corrupt(name, lineNo, "invalid task record: %v", err)
		}
		var record taskRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, corrupt(name, lineNo, "invalid task record: %v", err)
		}

		task, err := record.toTask(columnIDs)
		if err != nil {
			return nil, &CorruptError{Path: name, Line: lineNo, Err: err}
		}
		tasks = append(tasks, task)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, corrupt(name, lineNo+1, "record exceeds %d bytes", maxLineSize)
		}
		return nil, fmt.Errorf("error reading board file: %w", err)
	}
	if header == nil {
		return nil, corrupt(name, 0, "missing board header")
	}

	l, err := ledger.Restore(columns, clock, types.TaskID(header.NextID), tasks)
	if err != nil {
		return nil, &CorruptError{Path: name, Err: err}
	}
	return l, nil
}

func (r taskRecord) toTask(columnIDs map[string]types.ColumnID) (models.Task, error) {
	column, ok := columnIDs[r.Column]
	if !ok {
		return models.Task{}, fmt.Errorf("task %d is in unknown column %q", r.ID, r.Column)
	}

	task := models.Task{
		ID:       types.TaskID(r.ID),
		Name:     r.Name,
		ColumnID: column,
		History:  make([]models.HistoryEntry, len(r.History)),
	}
	for i, entry := range r.History {
		col, ok := columnIDs[entry.Column]
		if !ok {
			return models.Task{}, fmt.Errorf("task %d history entry %d has unknown column %q", r.ID, i, entry.Column)
		}
		task.History[i] = models.HistoryEntry{ColumnID: col, EnteredAt: entry.At.UTC()}
	}
	return task, nil
}
