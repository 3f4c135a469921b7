// Package tasks enforces the integrity rules of the task graph: parent and
// sub-task hierarchy, prerequisite edges, recurring visibility, and the two
// kinds of completion (one-off status vs. per-date occurrence logs).
package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matt-steen/day-planner/pkg/db"
)

// Manager wraps the store with the caller-facing task operations. All
// blocking conditions are checked here, before any state mutation.
type Manager struct {
	db *db.Database
}

// NewManager creates a Manager over an open database.
func NewManager(database *db.Database) *Manager {
	return &Manager{db: database}
}

// Fields are the caller-editable attributes of a task.
type Fields struct {
	Description string
	Deadline    string
	Priority    string
	Category    string
	Notes       string
	Tags        string
	ShowMode    string
}

// CreateTask creates a new top-level task. The description is required;
// status defaults to pending and show mode to auto.
func (m *Manager) CreateTask(ctx context.Context, fields Fields) (*db.Task, error) {
	return m.createTask(ctx, fields, "")
}

// CreateSubTask creates a task under the given parent. When the caller
// leaves the category empty it is inherited from the parent.
func (m *Manager) CreateSubTask(ctx context.Context, parentID string, fields Fields) (*db.Task, error) {
	parent, err := m.db.GetTask(ctx, parentID)
	if err != nil {
		return nil, err
	}

	if fields.Category == "" {
		fields.Category = parent.Category
	}

	return m.createTask(ctx, fields, parent.ID)
}

func (m *Manager) createTask(ctx context.Context, fields Fields, parentID string) (*db.Task, error) {
	if fields.Description == "" {
		return nil, &db.ValidationError{Field: "description", Reason: "must not be empty"}
	}

	priority := fields.Priority
	if priority == "" {
		priority = db.PriorityMedium
	}

	task := &db.Task{
		Description:  fields.Description,
		Status:       db.StatusPending,
		DateAdded:    time.Now().Format(db.DateFormat),
		Deadline:     fields.Deadline,
		Priority:     priority,
		Category:     fields.Category,
		Notes:        fields.Notes,
		Tags:         fields.Tags,
		ShowMode:     fields.ShowMode,
		ParentTaskID: parentID,
	}

	if err := m.db.InsertTask(ctx, task); err != nil {
		return nil, err
	}

	log.Debug().Str("task_id", task.ID).Str("parent_id", parentID).Msg("created task")

	return task, nil
}

// UpdateTask rewrites the editable fields of an existing task.
func (m *Manager) UpdateTask(ctx context.Context, id string, fields Fields) error {
	if fields.Description == "" {
		return &db.ValidationError{Field: "description", Reason: "must not be empty"}
	}

	showMode := fields.ShowMode
	if showMode == "" {
		showMode = db.ShowModeAuto
	}

	return m.db.UpdateTaskDetails(ctx, &db.Task{
		ID:          id,
		Description: fields.Description,
		Deadline:    fields.Deadline,
		Priority:    fields.Priority,
		Category:    fields.Category,
		Notes:       fields.Notes,
		Tags:        fields.Tags,
		ShowMode:    showMode,
	})
}

// SetStatus completes or reopens a task. Completion fails with
// TaskBlockedError while the task has pending sub-tasks or unresolved
// prerequisites; reopening is never blocked. The task row is untouched on
// failure.
func (m *Manager) SetStatus(ctx context.Context, id string, completed bool) error {
	if _, err := m.db.GetTask(ctx, id); err != nil {
		return err
	}

	if !completed {
		return m.db.UpdateTaskStatus(ctx, id, db.StatusPending, "")
	}

	subtasks, err := m.db.PendingSubtaskCount(ctx, id)
	if err != nil {
		return err
	}

	dependencies, err := m.db.PendingDependencyCount(ctx, id)
	if err != nil {
		return err
	}

	if subtasks > 0 || dependencies > 0 {
		return &TaskBlockedError{TaskID: id, PendingSubtasks: subtasks, PendingDependencies: dependencies}
	}

	return m.db.UpdateTaskStatus(ctx, id, db.StatusCompleted, time.Now().Format(db.DateFormat))
}

// SetOccurrenceComplete marks or clears completion of a recurring task's
// occurrence on a date. The task's own status and completion date are never
// touched here.
func (m *Manager) SetOccurrenceComplete(ctx context.Context, id, date string, completed bool) error {
	task, err := m.db.GetTask(ctx, id)
	if err != nil {
		return err
	}

	recurring, err := m.isRecurring(ctx, task)
	if err != nil {
		return err
	}

	if !recurring {
		return &db.ValidationError{Field: "task", Reason: "occurrence completion applies to recurring tasks only"}
	}

	if completed {
		return m.db.LogCompletion(ctx, id, date)
	}

	return m.db.RemoveCompletionLog(ctx, id, date)
}

// IsOccurrenceComplete reports whether the occurrence on the date was done.
func (m *Manager) IsOccurrenceComplete(ctx context.Context, id, date string) (bool, error) {
	return m.db.IsLoggedComplete(ctx, id, date)
}

// A task is recurring when it has show dates, was spawned by an automation,
// or is in always_pending mode.
func (m *Manager) isRecurring(ctx context.Context, task *db.Task) (bool, error) {
	if task.CreatedByAutomationID != "" || task.ShowMode == db.ShowModeAlwaysPending {
		return true, nil
	}

	return m.db.HasShowDates(ctx, task.ID)
}

// DeleteTask removes a task along with its sub-tasks, show dates, completion
// log entries, and dependency edges in both directions.
func (m *Manager) DeleteTask(ctx context.Context, id string) error {
	return m.db.DeleteTask(ctx, id)
}

// TasksDueOn returns the union of tasks whose deadline is the date, tasks
// with a show date on the date, and pending always_pending tasks,
// de-duplicated by id.
func (m *Manager) TasksDueOn(ctx context.Context, date string) ([]*db.Task, error) {
	byDeadline, err := m.db.ListTasksByDeadline(ctx, date)
	if err != nil {
		return nil, err
	}

	byShowDate, err := m.db.ListTasksByShowDate(ctx, date)
	if err != nil {
		return nil, err
	}

	alwaysPending, err := m.db.ListAlwaysPendingTasks(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	var due []*db.Task

	for _, group := range [][]*db.Task{byDeadline, byShowDate, alwaysPending} {
		for _, task := range group {
			if seen[task.ID] {
				continue
			}

			seen[task.ID] = true

			due = append(due, task)
		}
	}

	return due, nil
}

// PendingSubtaskCount returns the number of pending sub-tasks of a task.
func (m *Manager) PendingSubtaskCount(ctx context.Context, id string) (int, error) {
	return m.db.PendingSubtaskCount(ctx, id)
}

// PendingDependencyCount returns the number of unresolved prerequisites of a
// task.
func (m *Manager) PendingDependencyCount(ctx context.Context, id string) (int, error) {
	return m.db.PendingDependencyCount(ctx, id)
}
