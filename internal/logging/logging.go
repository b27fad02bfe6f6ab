package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// DefaultPath returns $XDG_STATE_HOME/kanban/kanban.log, or
// ~/.kanban/logs/kanban.log when XDG_STATE_HOME is unset
func DefaultPath() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "kanban", "kanban.log"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".kanban", "logs", "kanban.log"), nil
}

// Init initializes the logging system, writing logs to path (DefaultPath when empty).
// Uses text format for human readability. If the log file cannot be opened,
// logs are discarded and the error is returned so the caller may report it.
func Init(path string) error {
	file, err := open(path)
	if err != nil {
		setOutput(io.Discard)
		return err
	}

	setOutput(file)
	return nil
}

func open(path string) (*os.File, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	// Open log file in append mode
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func setOutput(w io.Writer) {
	// Create text handler (human readable)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same file
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags) // Include timestamp
}
