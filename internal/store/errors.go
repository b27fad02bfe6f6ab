package store

import (
	"errors"
	"fmt"
)

// ErrCorruptStore indicates the board file exists but is not a valid board
var ErrCorruptStore = errors.New("corrupt board file")

// CorruptError describes where a board file failed to parse.
// It matches ErrCorruptStore and the underlying cause with errors.Is.
type CorruptError struct {
	Path string
	Line int // 1-based; 0 when the problem is not tied to a single line
	Err  error
}

func (e *CorruptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s line %d: %v", ErrCorruptStore, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrCorruptStore, e.Path, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorruptStore, e.Err}
}

func corrupt(path string, line int, format string, args ...any) *CorruptError {
	return &CorruptError{Path: path, Line: line, Err: fmt.Errorf(format, args...)}
}
