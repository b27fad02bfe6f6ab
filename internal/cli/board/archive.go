package board

import (
	"github.com/spf13/cobra"
)

// ArchiveCmd returns the archive subcommand
func ArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "List tasks removed by clear",
		Args:  exactArgs(0),
		RunE:  runArchive,
	}
}

func runArchive(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return s.archive()
}

func (s *session) archive() error {
	tasks, err := s.svc.ListArchived(s.ctx)
	if err != nil {
		return err
	}

	views := make([]archivedView, len(tasks))
	for i, task := range tasks {
		views[i] = newArchivedView(task)
	}

	message := "Archive is empty."
	if len(views) > 0 {
		message = renderArchived(views)
	}
	return s.out().Success("archived", views, message)
}
