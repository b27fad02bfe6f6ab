package models

import "github.com/thenoetrevino/kanban/internal/types"

// Column represents a kanban board column (e.g., "ToDo", "Doing", "Done").
// Columns form a fixed, ordered sequence; ID is the position in that sequence.
type Column struct {
	ID   types.ColumnID // Position in the column sequence, starting at 0
	Name string         // Display name, unique within the board
}

// NewColumns builds the ordered column sequence from a list of names
func NewColumns(names []string) []Column {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{ID: types.ColumnIDFromInt(i), Name: name}
	}
	return columns
}

// ColumnNames returns the names of the given columns in order
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}
