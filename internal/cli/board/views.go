package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
)

// timeLayout is used for timestamps in human output
const timeLayout = "2006-01-02 15:04:05"

type historyView struct {
	Column    string    `json:"column"`
	EnteredAt time.Time `json:"entered_at"`
}

type taskView struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Column  string        `json:"column"`
	History []historyView `json:"history"`
}

// GetID lets quiet mode print only the id
func (v taskView) GetID() int {
	return v.ID
}

type columnView struct {
	Name  string     `json:"name"`
	Tasks []taskView `json:"tasks"`
}

type archivedView struct {
	ArchiveID   int           `json:"archive_id"`
	TaskID      int           `json:"task_id"`
	Name        string        `json:"name"`
	FinalColumn string        `json:"final_column"`
	ArchivedAt  time.Time     `json:"archived_at"`
	ArchivedBy  string        `json:"archived_by"`
	History     []historyView `json:"history"`
}

func newTaskView(task models.Task, columns []models.Column) taskView {
	name := func(i int) string {
		if i >= 0 && i < len(columns) {
			return columns[i].Name
		}
		return ""
	}

	history := make([]historyView, len(task.History))
	for i, entry := range task.History {
		history[i] = historyView{Column: name(entry.ColumnID.ToInt()), EnteredAt: entry.EnteredAt}
	}
	return taskView{
		ID:      task.ID.ToInt(),
		Name:    task.Name,
		Column:  name(task.ColumnID.ToInt()),
		History: history,
	}
}

func newArchivedView(task models.ArchivedTask) archivedView {
	history := make([]historyView, len(task.History))
	for i, entry := range task.History {
		history[i] = historyView{Column: entry.ColumnName, EnteredAt: entry.EnteredAt}
	}
	return archivedView{
		ArchiveID:   task.ArchiveID,
		TaskID:      task.TaskID,
		Name:        task.Name,
		FinalColumn: task.FinalColumn,
		ArchivedAt:  task.ArchivedAt,
		ArchivedBy:  task.ArchivedBy,
		History:     history,
	}
}

// groupByColumn keeps column order and ascending task ids inside each column
func groupByColumn(tasks []models.Task, columns []models.Column) []columnView {
	views := make([]columnView, len(columns))
	for i, col := range columns {
		views[i] = columnView{Name: col.Name, Tasks: []taskView{}}
	}
	for _, task := range tasks {
		i := task.ColumnID.ToInt()
		if i < 0 || i >= len(views) {
			continue
		}
		views[i].Tasks = append(views[i].Tasks, newTaskView(task, columns))
	}
	return views
}

func renderBoard(columns []columnView) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.RenderColumnHeader(i, col.Name, len(col.Tasks)))
		b.WriteString("\n")
		for _, task := range col.Tasks {
			b.WriteString(styles.RenderTaskLine(task.ID, task.Name))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderHistory(history []historyView) string {
	var b strings.Builder
	for _, entry := range history {
		fmt.Fprintf(&b, "  %s %s\n",
			styles.SubtitleStyle.Render(entry.EnteredAt.Local().Format(timeLayout)),
			styles.ValueStyle.Render(entry.Column))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTask(task taskView) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Name)))
	b.WriteString("\n")
	b.WriteString(styles.LabelStyle.Render("Column: ") + styles.ValueStyle.Render(task.Column))
	b.WriteString("\n")
	b.WriteString(styles.SectionStyle.Render("History"))
	b.WriteString("\n")
	b.WriteString(renderHistory(task.History))
	return styles.RenderCard(b.String())
}

func renderArchived(tasks []archivedView) string {
	var b strings.Builder
	for i, task := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("#%d %s", task.TaskID, task.Name)))
		b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(" (%s, archived %s by %s)",
			task.FinalColumn, task.ArchivedAt.Local().Format(timeLayout), task.ArchivedBy)))
		b.WriteString("\n")
		b.WriteString(renderHistory(task.History))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
