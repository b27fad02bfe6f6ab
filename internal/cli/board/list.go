package board

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListCmd returns the list subcommand
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks grouped by column",
		Args:    exactArgs(0),
		RunE:    runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.list()
}

func (s *session) list() error {
	tasks, err := s.svc.ListTasks(s.ctx)
	if err != nil {
		return err
	}
	columns := groupByColumn(tasks, s.svc.Columns())

	f := s.out()
	if f.Quiet && !f.JSON {
		for _, task := range tasks {
			if err := f.Println(fmt.Sprint(task.ID)); err != nil {
				return err
			}
		}
		return nil
	}
	return f.Success("columns", columns, renderBoard(columns))
}
