package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/logging"
)

// Options are the global flags shared by every command
type Options struct {
	ConfigPath    string
	BoardPath     string
	IgnoreCorrupt bool
	JSON          bool
	Quiet         bool

	// AppOptions are passed to app.New; tests use them to fix the clock and user
	AppOptions []app.Option
}

// CLI represents the CLI application context
type CLI struct {
	Config    *config.Config
	Formatter *OutputFormatter

	opts Options
	app  *app.App
}

// NewCLI loads the configuration and prepares logging and styles.
// The board itself is opened on first use by App.
func NewCLI(opts Options, stdout, stderr io.Writer) (*CLI, error) {
	formatter := &OutputFormatter{JSON: opts.JSON, Quiet: opts.Quiet, Out: stdout, Err: stderr}

	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFrom(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.BoardPath != "" {
		cfg.BoardFile = opts.BoardPath
	}

	if err := logging.Init(cfg.LogFile); err != nil {
		// Logging is best effort, the CLI keeps working without it
		formatter.Warn(fmt.Sprintf("logging disabled: %v", err))
	}
	styles.Init(cfg.ColorScheme)

	slog.Debug("cli initialized", "board", cfg.BoardFile, "ignore_corrupt", opts.IgnoreCorrupt)
	return &CLI{Config: cfg, Formatter: formatter, opts: opts}, nil
}

// App returns the application container, loading the board on first call
func (c *CLI) App(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	appOpts := append([]app.Option{app.WithIgnoreCorrupt(c.opts.IgnoreCorrupt)}, c.opts.AppOptions...)
	application, err := app.New(ctx, c.Config, appOpts...)
	if err != nil {
		return nil, err
	}
	if application.IgnoredLoadError != nil {
		c.Formatter.Warn(fmt.Sprintf("%v; starting with an empty board, the file is kept until the next change", application.IgnoredLoadError))
	}

	c.app = application
	return c.app, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}
