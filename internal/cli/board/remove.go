package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
)

// RemoveCmd returns the remove subcommand
func RemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a task from the board",
		Args:    exactArgs(1),
		RunE:    runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.remove(args[0])
}

func (s *session) remove(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.svc.DeleteTask(s.ctx, id); err != nil {
		return err
	}
	return s.out().Success("task_id", id.ToInt(), styles.SuccessStyle.Render(fmt.Sprintf("Task %d removed", id)))
}
