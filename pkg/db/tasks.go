package db

import (
	"context"
	"database/sql"
	"errors"
)

const taskColumns = `id, description, status, date_added, deadline, priority, category, notes, tags,
	date_completed, schedule_event_id, created_by_automation_id, show_mode, parent_task_id`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*Task, error) {
	var task Task

	var deadline, priority, category, notes, tags, dateCompleted, eventID, automationID, parentID sql.NullString

	err := row.Scan(
		&task.ID, &task.Description, &task.Status, &task.DateAdded,
		&deadline, &priority, &category, &notes, &tags,
		&dateCompleted, &eventID, &automationID, &task.ShowMode, &parentID,
	)
	if err != nil {
		return nil, err
	}

	task.Deadline = deadline.String
	task.Priority = priority.String
	task.Category = category.String
	task.Notes = notes.String
	task.Tags = tags.String
	task.DateCompleted = dateCompleted.String
	task.ScheduleEventID = eventID.String
	task.CreatedByAutomationID = automationID.String
	task.ParentTaskID = parentID.String

	return &task, nil
}

// nullable maps an empty string to NULL so optional columns stay unset.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}

func insertTask(ctx context.Context, ex execer, task *Task) error {
	if task.ID == "" {
		task.ID = NewID()
	}

	if task.Status == "" {
		task.Status = StatusPending
	}

	if task.ShowMode == "" {
		task.ShowMode = ShowModeAuto
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Description, task.Status, task.DateAdded,
		nullable(task.Deadline), nullable(task.Priority), nullable(task.Category),
		nullable(task.Notes), nullable(task.Tags), nullable(task.DateCompleted),
		nullable(task.ScheduleEventID), nullable(task.CreatedByAutomationID),
		task.ShowMode, nullable(task.ParentTaskID),
	)
	if err != nil {
		return storagef(err, "adding task '%s'", task.Description)
	}

	return nil
}

// InsertTask adds a single task row, assigning an id when the caller left it
// empty.
func (d *Database) InsertTask(ctx context.Context, task *Task) error {
	return insertTask(ctx, d.conn, task)
}

// InsertTasks adds a batch of task rows in one transaction, parent rows
// first. Either every row commits or none do.
func (d *Database) InsertTasks(ctx context.Context, tasks []*Task) error {
	return d.withTx(ctx, "task batch insert", func(tx *sql.Tx) error {
		for _, task := range tasks {
			if err := insertTask(ctx, tx, task); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetTask fetches a single task by id.
func (d *Database) GetTask(ctx context.Context, id string) (*Task, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "task", ID: id}
	}

	if err != nil {
		return nil, storagef(err, "loading task %s", id)
	}

	return task, nil
}

func (d *Database) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*Task, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storagef(err, "loading tasks")
	}
	defer rows.Close()

	var tasks []*Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storagef(err, "scanning task")
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning tasks")
	}

	return tasks, nil
}

// ListTopLevelTasks returns tasks with the given status that have no parent;
// sub-tasks are never included.
func (d *Database) ListTopLevelTasks(ctx context.Context, status string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = ? AND parent_task_id IS NULL ORDER BY date_added`, status)
}

// ListAllTasks returns every task regardless of status or parentage.
func (d *Database) ListAllTasks(ctx context.Context) ([]*Task, error) {
	return d.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY date_added`)
}

// ListAllPendingTasks returns all pending tasks, parents and sub-tasks alike.
func (d *Database) ListAllPendingTasks(ctx context.Context) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY date_added`, StatusPending)
}

// ListSubTasks returns the sub-tasks of the given parent. Pass an empty
// status to include completed ones.
func (d *Database) ListSubTasks(ctx context.Context, parentID, status string) ([]*Task, error) {
	if status == "" {
		return d.queryTasks(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE parent_task_id = ? ORDER BY date_added`, parentID)
	}

	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE parent_task_id = ? AND status = ? ORDER BY date_added`, parentID, status)
}

// ListTasksByDeadline returns pending tasks whose deadline falls on the date.
func (d *Database) ListTasksByDeadline(ctx context.Context, date string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE deadline = ? AND status = ?`, date, StatusPending)
}

// ListTasksByShowDate returns tasks scheduled to show on the date.
func (d *Database) ListTasksByShowDate(ctx context.Context, date string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT t.id, t.description, t.status, t.date_added, t.deadline, t.priority,
		        t.category, t.notes, t.tags, t.date_completed, t.schedule_event_id,
		        t.created_by_automation_id, t.show_mode, t.parent_task_id
		 FROM tasks t
		 JOIN task_show_dates tsd ON t.id = tsd.task_id
		 WHERE tsd.show_date = ?`, date)
}

// ListAlwaysPendingTasks returns uncompleted tasks in always_pending mode.
func (d *Database) ListAlwaysPendingTasks(ctx context.Context) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE show_mode = ? AND status = ?`,
		ShowModeAlwaysPending, StatusPending)
}

// ListTasksCompletedOn returns tasks whose own completion date is the given
// date (one-off completions, not occurrence logs).
func (d *Database) ListTasksCompletedOn(ctx context.Context, date string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE date_completed = ? ORDER BY priority`, date)
}

// ListTasksWithDeadlineBetween returns tasks due inside [start, end],
// ordered by deadline. Used by the monthly calendar view.
func (d *Database) ListTasksWithDeadlineBetween(ctx context.Context, start, end string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE deadline IS NOT NULL AND deadline BETWEEN ? AND ? ORDER BY deadline`, start, end)
}

// ListTasksForEvent returns tasks linked to the given schedule event.
func (d *Database) ListTasksForEvent(ctx context.Context, eventID string) ([]*Task, error) {
	return d.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE schedule_event_id = ?`, eventID)
}

// FindAutomationTask returns the pending task created by the given automation
// with the given description, or nil when none exists. This is the lookup
// behind ensure_task idempotence.
func (d *Database) FindAutomationTask(ctx context.Context, automationID, description string) (*Task, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE created_by_automation_id = ? AND description = ? AND status = ? LIMIT 1`,
		automationID, description, StatusPending)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, storagef(err, "finding task for automation %s", automationID)
	}

	return task, nil
}

// UpdateTaskDetails rewrites the editable fields of a task.
func (d *Database) UpdateTaskDetails(ctx context.Context, task *Task) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET description = ?, priority = ?, category = ?, deadline = ?, notes = ?, tags = ?, show_mode = ?
		 WHERE id = ?`,
		task.Description, nullable(task.Priority), nullable(task.Category),
		nullable(task.Deadline), nullable(task.Notes), nullable(task.Tags), task.ShowMode, task.ID,
	)
	if err != nil {
		return storagef(err, "updating task %s", task.ID)
	}

	return requireRow(result, "task", task.ID)
}

// UpdateTaskStatus sets the task's own status and completion date. Callers
// enforce the blocking rules before calling this.
func (d *Database) UpdateTaskStatus(ctx context.Context, id, status, dateCompleted string) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE tasks SET status = ?, date_completed = ? WHERE id = ?`,
		status, nullable(dateCompleted), id)
	if err != nil {
		return storagef(err, "updating status of task %s", id)
	}

	return requireRow(result, "task", id)
}

// DeleteTask removes a task. Foreign keys cascade the delete to its
// sub-tasks (recursively), show dates, completion log entries, and
// dependency edges in both directions.
func (d *Database) DeleteTask(ctx context.Context, id string) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return storagef(err, "deleting task %s", id)
	}

	return requireRow(result, "task", id)
}

// LinkTaskToEvent points a task at a schedule event.
func (d *Database) LinkTaskToEvent(ctx context.Context, taskID, eventID string) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE tasks SET schedule_event_id = ? WHERE id = ?`, eventID, taskID)
	if err != nil {
		return storagef(err, "linking task %s to event %s", taskID, eventID)
	}

	return requireRow(result, "task", taskID)
}

// UnlinkTaskFromEvent clears a task's event link if it points at the event.
func (d *Database) UnlinkTaskFromEvent(ctx context.Context, taskID, eventID string) error {
	_, err := d.conn.ExecContext(ctx,
		`UPDATE tasks SET schedule_event_id = NULL WHERE id = ? AND schedule_event_id = ?`,
		taskID, eventID)
	if err != nil {
		return storagef(err, "unlinking task %s from event %s", taskID, eventID)
	}

	return nil
}

// LinkTasksToEvents sets every task's event link to every event in one
// transaction (the cross-product an automation run produces). The task row
// holds a single link column, so with several events the last one wins.
func (d *Database) LinkTasksToEvents(ctx context.Context, taskIDs, eventIDs []string) error {
	return d.withTx(ctx, "task-event linking", func(tx *sql.Tx) error {
		for _, taskID := range taskIDs {
			for _, eventID := range eventIDs {
				if _, err := tx.ExecContext(ctx,
					`UPDATE tasks SET schedule_event_id = ? WHERE id = ?`, eventID, taskID); err != nil {
					return storagef(err, "linking task %s to event %s", taskID, eventID)
				}
			}
		}

		return nil
	})
}

// requireRow converts a zero-row update or delete into a NotFoundError.
func requireRow(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storagef(err, "checking affected rows for %s %s", entity, id)
	}

	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}

	return nil
}
