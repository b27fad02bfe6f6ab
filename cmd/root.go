package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/app"
	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/cli/board"
)

// rootState is shared between the root command hooks and Run
type rootState struct {
	opts cli.Options
	cli  *cli.CLI
}

// NewRootCmd builds the kanban command tree. appOpts are passed to the
// application container; tests use them to fix the clock and user.
func NewRootCmd(appOpts ...app.Option) *cobra.Command {
	root, _ := newRootCmd(appOpts...)
	return root
}

func newRootCmd(appOpts ...app.Option) (*cobra.Command, *rootState) {
	state := &rootState{opts: cli.Options{AppOptions: appOpts}}

	rootCmd := &cobra.Command{
		Use:   "kanban",
		Short: "Kanban - A minimal personal kanban board",
		Long: `Kanban is a minimal personal kanban board. Tasks enter the first column,
advance one column at a time and are cleared from the last one.

Run without a subcommand to start the interactive shell.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsBoard(cmd) {
				return nil
			}
			c, err := cli.NewCLI(state.opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			state.cli = c
			cmd.SetContext(cli.WithCLI(cmd.Context(), c))
			return nil
		},
		RunE: board.RunShell,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&state.opts.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/kanban/config.yaml)")
	flags.StringVar(&state.opts.BoardPath, "board", "", "Board file (overrides board_file from the config)")
	flags.BoolVar(&state.opts.IgnoreCorrupt, "ignore-corrupt", false, "Start from an empty board if the board file cannot be read")

	// Agent-friendly flags
	flags.BoolVar(&state.opts.JSON, "json", false, "Output in JSON format")
	flags.BoolVar(&state.opts.Quiet, "quiet", false, "Minimal output (IDs only)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	})

	rootCmd.AddCommand(board.Commands()...)
	rootCmd.AddCommand(ConfigCmd())

	return rootCmd, state
}

// skipsBoard reports whether cmd runs without loading config and board
func skipsBoard(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoBoard] == "true" {
			return true
		}
	}
	return false
}

const annotationNoBoard = "no-board"

// Run executes the command line in args and returns the process exit code
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, appOpts ...app.Option) int {
	rootCmd, state := newRootCmd(appOpts...)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		err = fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	formatter := &cli.OutputFormatter{JSON: state.opts.JSON, Quiet: state.opts.Quiet, Out: stdout, Err: stderr}
	if state.cli != nil {
		formatter = state.cli.Formatter
		if closeErr := state.cli.Close(); closeErr != nil {
			slog.Error("error closing cli", "error", closeErr)
		}
	}

	if err != nil {
		slog.Debug("command failed", "args", args, "error", err)
	}
	return formatter.HandleError(err)
}

// Execute runs the root command with the process arguments
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
