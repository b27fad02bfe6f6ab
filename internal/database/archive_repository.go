package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/kanban/internal/models"
)

// ArchiveRepository stores tasks removed from the board by a clear
type ArchiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates a repository over an initialized database
func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// ArchiveTasks writes the tasks and their history in a single transaction.
// Either every task is archived or none is. A task already archived with the
// same completion time is skipped, so retrying a clear whose board save
// failed does not duplicate it.
func (r *ArchiveRepository) ArchiveTasks(ctx context.Context, tasks []models.ArchivedTask) error {
	if len(tasks) == 0 {
		return nil
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, task := range tasks {
			result, err := tx.ExecContext(ctx,
				`INSERT INTO archived_tasks (task_id, name, final_column, completed_at, archived_at, archived_by)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (task_id, completed_at) DO NOTHING`,
				task.TaskID, task.Name, task.FinalColumn, formatTime(task.CompletedAt()),
				formatTime(task.ArchivedAt), task.ArchivedBy,
			)
			if err != nil {
				return fmt.Errorf("failed to archive task %d: %w", task.TaskID, err)
			}

			inserted, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if inserted == 0 {
				slog.Debug("task already archived, skipping", "task_id", task.TaskID)
				continue
			}

			archiveID, err := result.LastInsertId()
			if err != nil {
				return err
			}

			for seq, entry := range task.History {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO archived_history (archived_task_id, seq, column_name, entered_at)
					 VALUES (?, ?, ?, ?)`,
					archiveID, seq, entry.ColumnName, formatTime(entry.EnteredAt),
				)
				if err != nil {
					return fmt.Errorf("failed to archive history of task %d: %w", task.TaskID, err)
				}
			}
		}
		return nil
	})
}

// ListArchived returns every archived task with its history, ordered by
// archive time and then by task id
func (r *ArchiveRepository) ListArchived(ctx context.Context) ([]models.ArchivedTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, name, final_column, archived_at, archived_by
		 FROM archived_tasks
		 ORDER BY archived_at, task_id, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ArchivedTask
	index := make(map[int]int)
	for rows.Next() {
		var task models.ArchivedTask
		var archivedAt string
		if err := rows.Scan(
			&task.ArchiveID, &task.TaskID, &task.Name,
			&task.FinalColumn, &archivedAt, &task.ArchivedBy,
		); err != nil {
			return nil, err
		}
		if task.ArchivedAt, err = parseTime(archivedAt); err != nil {
			return nil, err
		}
		index[task.ArchiveID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachHistory(ctx, tasks, index); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountArchived returns the number of archived tasks
func (r *ArchiveRepository) CountArchived(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archived_tasks").Scan(&count)
	return count, err
}

func (r *ArchiveRepository) attachHistory(ctx context.Context, tasks []models.ArchivedTask, index map[int]int) error {
	if len(tasks) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT archived_task_id, column_name, entered_at
		 FROM archived_history
		 ORDER BY archived_task_id, seq`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var archiveID int
		var entry models.ArchivedHistoryEntry
		var enteredAt string
		if err := rows.Scan(&archiveID, &entry.ColumnName, &enteredAt); err != nil {
			return err
		}
		if entry.EnteredAt, err = parseTime(enteredAt); err != nil {
			return err
		}
		i, ok := index[archiveID]
		if !ok {
			continue
		}
		tasks[i].History = append(tasks[i].History, entry)
	}
	return rows.Err()
}
