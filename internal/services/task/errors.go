package task

import "errors"

var (
	// ErrArchiveDisabled indicates the archive was requested but not configured
	ErrArchiveDisabled = errors.New("archive is disabled")

	// ErrSaveFailed wraps a failure to persist the board after a change.
	// The change itself is kept in memory and written by the next save.
	ErrSaveFailed = errors.New("failed to save board")
)
