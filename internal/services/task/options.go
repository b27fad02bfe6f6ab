package task

import (
	"time"

	"github.com/thenoetrevino/kanban/internal/ledger"
)

// Option is a functional option for configuring the service
type Option func(*service)

// WithArchive records cleared tasks in archive, attributed to user
func WithArchive(archive Archiver, user string) Option {
	return func(s *service) {
		s.archive = archive
		s.user = user
	}
}

// WithClock sets the clock used for archive timestamps
func WithClock(clock ledger.Clock) Option {
	return func(s *service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithProtectedBoard keeps Save from writing until the board has been
// changed. Used when the board file could not be read and the ledger
// started empty, so the unreadable file is not replaced by a plain save.
func WithProtectedBoard() Option {
	return func(s *service) {
		s.protected = true
	}
}

func defaultClock() time.Time {
	return time.Now()
}
