package board

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
)

// AddCmd returns the add subcommand
func AddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a task to the first column",
		Long: `Add a task to the first column. All arguments are joined into the task name.

Examples:
  kanban add write the release notes

  # Quiet mode for bash capture
  TASK_ID=$(kanban add "Fix bug" --quiet)
`,
		RunE: runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.add(strings.Join(args, " "))
}

func (s *session) add(name string) error {
	task, err := s.svc.CreateTask(s.ctx, name)
	if err != nil {
		return err
	}
	view := newTaskView(task, s.svc.Columns())
	return s.out().Success("task", view, styles.SuccessStyle.Render(fmt.Sprintf("Task created with id %d.", task.ID)))
}
