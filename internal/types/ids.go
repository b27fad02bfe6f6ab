package types

// ID type aliases provide semantic meaning and reduce repetitive int conversions.

// TaskID identifies a task on the board. IDs start at 1 and are never reused.
type TaskID int

// ColumnID is the position of a column in the configured column sequence.
// The first column is 0.
type ColumnID int

// ToInt converts type alias back to int
func (id TaskID) ToInt() int {
	return int(id)
}

func (id ColumnID) ToInt() int {
	return int(id)
}

// TaskIDFromInt creates a TaskID from an int value
func TaskIDFromInt(i int) TaskID {
	return TaskID(i)
}

// ColumnIDFromInt creates a ColumnID from a column position
func ColumnIDFromInt(i int) ColumnID {
	return ColumnID(i)
}
