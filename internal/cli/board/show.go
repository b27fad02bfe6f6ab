package board

import (
	"github.com/spf13/cobra"
)

// ShowCmd returns the show subcommand
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task and the columns it passed through",
		Args:  exactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.show(args[0])
}

func (s *session) show(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	task, err := s.svc.GetTask(s.ctx, id)
	if err != nil {
		return err
	}
	view := newTaskView(task, s.svc.Columns())
	return s.out().Success("task", view, renderTask(view))
}
