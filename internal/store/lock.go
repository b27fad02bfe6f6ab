package store

import (
	"fmt"
	"log/slog"
	"os"
)

// lockPath returns the sibling lock file used to serialize access to path
func lockPath(path string) string {
	return path + ".lock"
}

// acquire takes the exclusive lock for path. The returned func releases it.
func acquire(path string) (func(), error) {
	f, err := os.OpenFile(lockPath(path), os.O_CREATE|os.O_RDWR, 0o644) // #nosec G304 - path comes from config
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := flockExclusive(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock board file: %w", err)
	}

	return func() {
		if err := flockUnlock(f); err != nil {
			slog.Error("failed to unlock board file", "path", path, "error", err)
		}
		if err := f.Close(); err != nil {
			slog.Error("failed to close lock file", "path", path, "error", err)
		}
	}, nil
}
