package ledger

import "errors"

// Validation errors
var (
	// ErrInvalidInput indicates a task name that is blank or not valid UTF-8
	ErrInvalidInput = errors.New("invalid task name")

	// ErrNoColumns indicates a ledger was configured without any column
	ErrNoColumns = errors.New("board needs at least one column")

	// ErrInvalidState indicates restored data that breaks a ledger invariant
	ErrInvalidState = errors.New("invalid ledger state")
)

// Business logic errors
var (
	// ErrTaskNotFound indicates the task ID does not exist on the board
	ErrTaskNotFound = errors.New("task not found")

	// ErrTerminalColumn indicates the task is already in the last column
	ErrTerminalColumn = errors.New("task is already in the last column")

	// ErrIDsExhausted indicates no task ID is left to hand out
	ErrIDsExhausted = errors.New("no task ids left on this board")
)
