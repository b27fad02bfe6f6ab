// Package board implements the board commands: add, advance, list, show,
// clear, remove, archive and the interactive shell
package board

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli"
	taskservice "github.com/thenoetrevino/kanban/internal/services/task"
	"github.com/thenoetrevino/kanban/internal/types"
)

// Commands returns every board subcommand
func Commands() []*cobra.Command {
	return []*cobra.Command{
		AddCmd(),
		AdvanceCmd(),
		ListCmd(),
		ShowCmd(),
		ClearCmd(),
		RemoveCmd(),
		ArchiveCmd(),
		ShellCmd(),
	}
}

// session is what every board action needs
type session struct {
	ctx context.Context
	cli *cli.CLI
	svc taskservice.Service
}

// openSession fetches the CLI from the command context and loads the board
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return nil, err
	}
	application, err := cliInstance.App(ctx)
	if err != nil {
		return nil, err
	}
	return &session{ctx: ctx, cli: cliInstance, svc: application.TaskService}, nil
}

func (s *session) out() *cli.OutputFormatter {
	return s.cli.Formatter
}

// columnName returns the name of the column at id
func (s *session) columnName(id types.ColumnID) string {
	columns := s.svc.Columns()
	if i := id.ToInt(); i >= 0 && i < len(columns) {
		return columns[i].Name
	}
	return fmt.Sprintf("column %d", id)
}

// parseID parses a task id argument
func parseID(arg string) (types.TaskID, error) {
	arg = strings.TrimPrefix(strings.TrimSpace(arg), "#")
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q is not a positive number", cli.ErrInvalidID, arg)
	}
	return types.TaskIDFromInt(n), nil
}

// exactArgs is cobra.ExactArgs with errors mapped to the usage exit code
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		return nil
	}
}
