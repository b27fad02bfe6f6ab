// Package store persists a ledger to a single JSON lines file.
//
// Saves write a temporary file next to the board, sync it, and rename it over
// the old one, so a crash mid-save leaves the previous board readable.
// An advisory lock on a sibling ".lock" file is held for the duration of a
// load or save.
package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/kanban/internal/ledger"
	"github.com/thenoetrevino/kanban/internal/models"
)

// BoardStore binds a board file path to the column configuration and clock
// used to rebuild ledgers from it
type BoardStore struct {
	Path    string
	Columns []models.Column
	Clock   ledger.Clock
}

// New creates a BoardStore
func New(path string, columns []models.Column, clock ledger.Clock) *BoardStore {
	return &BoardStore{Path: path, Columns: columns, Clock: clock}
}

// Load reads the board file. See the package-level Load.
func (s *BoardStore) Load() (*ledger.Ledger, error) {
	return Load(s.Path, s.Columns, s.Clock)
}

// Save writes l to the board file. See the package-level Save.
func (s *BoardStore) Save(l *ledger.Ledger) error {
	return Save(l, s.Path)
}

// Load reads the board at path. A missing file yields an empty ledger.
// A file that cannot be parsed into a valid ledger returns a *CorruptError
// matching ErrCorruptStore; the file is left untouched.
func Load(path string, columns []models.Column, clock ledger.Clock) (*ledger.Ledger, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Debug("board file not found, starting empty board", "path", path)
		return ledger.New(columns, clock)
	}

	release, err := acquire(path)
	if err != nil {
		return nil, err
	}
	defer release()

	f, err := os.Open(path) // #nosec G304 - path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return ledger.New(columns, clock)
		}
		return nil, fmt.Errorf("failed to open board file: %w", err)
	}
	defer f.Close()

	l, err := Decode(f, path, columns, clock)
	if err != nil {
		return nil, err
	}

	slog.Debug("board loaded", "path", path, "tasks", l.Len(), "next_id", l.NextID())
	return l, nil
}

// Save writes the full ledger to path, replacing any previous board atomically
func Save(l *ledger.Ledger, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	release, err := acquire(path)
	if err != nil {
		return err
	}
	defer release()

	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	slog.Debug("board saved", "path", path, "tasks", l.Len(), "bytes", buf.Len())
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path once it is fully on disk
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace board file: %w", err)
	}
	committed = true

	syncDir(dir)
	return nil
}

// syncDir makes the rename durable where the platform allows syncing a directory
func syncDir(dir string) {
	d, err := os.Open(dir) // #nosec G304 - directory of the configured board path
	if err != nil {
		slog.Debug("failed to open directory for sync", "dir", dir, "error", err)
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		slog.Debug("directory sync not supported", "dir", dir, "error", err)
	}
}
