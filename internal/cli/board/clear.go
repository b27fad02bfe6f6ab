package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
)

// ClearCmd returns the clear subcommand
func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Aliases: []string{"clean"},
		Short:   "Remove every task in the last column",
		Long: `Remove every task in the last column. When archive_on_clear is enabled
the tasks and their history are kept in the archive ('kanban archive').`,
		Args: exactArgs(0),
		RunE: runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.clear()
}

func (s *session) clear() error {
	n, err := s.svc.ClearDone(s.ctx)
	if err != nil {
		return err
	}

	f := s.out()
	if f.Quiet && !f.JSON {
		return f.Println(fmt.Sprint(n))
	}

	message := "No tasks to be cleaned."
	if n > 0 {
		message = styles.SuccessStyle.Render(fmt.Sprintf("%d tasks cleaned.", n))
	}
	return f.Success("cleared", n, message)
}
