package app

import (
	"time"

	"github.com/thenoetrevino/kanban/internal/ledger"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	clock         ledger.Clock
	ignoreCorrupt bool
	user          string
}

// WithClock sets the clock used for task history and archive timestamps
func WithClock(clock ledger.Clock) Option {
	return func(cfg *appConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithIgnoreCorrupt starts from an empty board when the board file is
// unreadable instead of failing
func WithIgnoreCorrupt(ignore bool) Option {
	return func(cfg *appConfig) {
		cfg.ignoreCorrupt = ignore
	}
}

// WithUser sets the name recorded on archived tasks
func WithUser(name string) Option {
	return func(cfg *appConfig) {
		cfg.user = name
	}
}

func defaultClock() time.Time {
	return time.Now()
}
