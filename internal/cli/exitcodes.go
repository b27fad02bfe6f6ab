package cli

import (
	"errors"

	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/ledger"
	"github.com/thenoetrevino/kanban/internal/store"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: I/O errors, archive errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Unparsable task ids, unknown commands, wrong argument counts.
	ExitUsage = 2

	// ExitNotFound indicates a requested task was not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: A board file that cannot be read back.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty task names, advancing a task out of the last column,
	// invalid column configuration.
	ExitValidation = 5
)

// ErrInvalidID is returned when a task id argument is not a positive integer
var ErrInvalidID = errors.New("invalid task id")

// ErrUsage marks argument errors reported by the command parser
var ErrUsage = errors.New("invalid usage")

// ExitCode maps an error returned by a command to its process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ledger.ErrTaskNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrCorruptStore):
		return ExitDataErr
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrTerminalColumn),
		errors.Is(err, config.ErrInvalidColumn),
		errors.Is(err, config.ErrNoColumns):
		return ExitValidation
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitError
	}
}

// ErrorCode returns the machine readable code used in JSON error output
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ledger.ErrTaskNotFound):
		return "TASK_NOT_FOUND"
	case errors.Is(err, store.ErrCorruptStore):
		return "CORRUPT_STORE"
	case errors.Is(err, ledger.ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ledger.ErrTerminalColumn):
		return "TERMINAL_COLUMN"
	case errors.Is(err, config.ErrInvalidColumn), errors.Is(err, config.ErrNoColumns):
		return "INVALID_CONFIG"
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrUsage):
		return "USAGE_ERROR"
	default:
		return "ERROR"
	}
}

// Suggestion returns a hint shown next to the error, if any
func Suggestion(err error) string {
	switch {
	case errors.Is(err, ledger.ErrTaskNotFound):
		return "Use 'kanban list' to see the tasks on the board"
	case errors.Is(err, store.ErrCorruptStore):
		return "Repair the board file, or rerun with --ignore-corrupt to start from an empty board"
	case errors.Is(err, ledger.ErrTerminalColumn):
		return "Use 'kanban clear' to remove finished tasks"
	default:
		return ""
	}
}
