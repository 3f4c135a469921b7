// Package template expands a saved task template into real task rows: one
// parent plus its sub-tasks, created all-or-nothing.
package template

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matt-steen/day-planner/pkg/db"
)

// EmptyTemplateError reports a template that cannot be instantiated: it has
// no rows, or its first row is not the parent.
type EmptyTemplateError struct {
	TemplateID string
	Reason     string
}

func (e *EmptyTemplateError) Error() string {
	return fmt.Sprintf("template %s cannot be instantiated: %s", e.TemplateID, e.Reason)
}

// Instantiator expands templates into tasks.
type Instantiator struct {
	db *db.Database
}

// NewInstantiator creates an Instantiator over an open database.
func NewInstantiator(database *db.Database) *Instantiator {
	return &Instantiator{db: database}
}

// Instantiate creates a real task tree from the template: the first row
// becomes a fresh top-level task, every other row a sub-task of it. The
// whole tree is written in one transaction; a failure partway creates
// nothing. Returns the new parent task's id.
func (i *Instantiator) Instantiate(ctx context.Context, templateID string) (string, error) {
	tmpl, err := i.db.GetTemplate(ctx, templateID)
	if err != nil {
		return "", err
	}

	if len(tmpl.Rows) == 0 {
		return "", &EmptyTemplateError{TemplateID: templateID, Reason: "it has no rows"}
	}

	if tmpl.Rows[0].IsSubTask {
		return "", &EmptyTemplateError{TemplateID: templateID, Reason: "its first row is marked as a sub-task"}
	}

	today := time.Now().Format(db.DateFormat)

	parentRow := tmpl.Rows[0]

	parent := &db.Task{
		ID:          db.NewID(),
		Description: parentRow.Description,
		Status:      db.StatusPending,
		DateAdded:   today,
		Priority:    rowPriority(parentRow, tmpl),
		Category:    tmpl.DefaultCategory,
		Notes:       parentRow.Notes,
		ShowMode:    db.ShowModeAuto,
	}

	batch := []*db.Task{parent}

	for _, row := range tmpl.Rows[1:] {
		batch = append(batch, &db.Task{
			ID:           db.NewID(),
			Description:  row.Description,
			Status:       db.StatusPending,
			DateAdded:    today,
			Priority:     rowPriority(row, tmpl),
			Category:     tmpl.DefaultCategory,
			Notes:        row.Notes,
			ShowMode:     db.ShowModeAuto,
			ParentTaskID: parent.ID,
		})
	}

	if err := i.db.InsertTasks(ctx, batch); err != nil {
		return "", err
	}

	log.Info().Str("template_id", templateID).Str("parent_task_id", parent.ID).
		Int("tasks", len(batch)).Msg("instantiated template")

	return parent.ID, nil
}

func rowPriority(row *db.TemplateTask, tmpl *db.TaskTemplate) string {
	if row.Priority != "" {
		return row.Priority
	}

	if tmpl.DefaultPriority != "" {
		return tmpl.DefaultPriority
	}

	return db.PriorityMedium
}
