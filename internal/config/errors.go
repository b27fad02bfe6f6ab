package config

import "errors"

var (
	// ErrNoColumns indicates the configured column list is empty
	ErrNoColumns = errors.New("at least one column must be configured")

	// ErrInvalidColumn indicates an empty or duplicated column name
	ErrInvalidColumn = errors.New("invalid column name")
)
