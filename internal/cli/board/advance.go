package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
)

// AdvanceCmd returns the advance subcommand
func AdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a task to the next column",
		Long: `Move a task to the next column. Tasks in the last column cannot be
advanced; use 'kanban clear' to remove them.`,
		Args: exactArgs(1),
		RunE: runAdvance,
	}
}

func runAdvance(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.advance(args[0])
}

func (s *session) advance(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	task, err := s.svc.AdvanceTask(s.ctx, id)
	if err != nil {
		return err
	}
	view := newTaskView(task, s.svc.Columns())
	return s.out().Success("task", view, styles.SuccessStyle.Render(fmt.Sprintf("Task %d moved to '%s'", task.ID, view.Column)))
}
