package db

import (
	"context"
	"database/sql"
	"errors"
)

// AddShowDate links a task to a date it should show on. Inserting the same
// pair twice is a no-op, which keeps repeated automation runs idempotent.
func (d *Database) AddShowDate(ctx context.Context, taskID, date string) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_show_dates (task_id, show_date) VALUES (?, ?)`, taskID, date)
	if err != nil {
		return storagef(err, "adding show date %s for task %s", date, taskID)
	}

	return nil
}

// RemoveShowDate removes a single show-date link from a task.
func (d *Database) RemoveShowDate(ctx context.Context, taskID, date string) error {
	_, err := d.conn.ExecContext(ctx,
		`DELETE FROM task_show_dates WHERE task_id = ? AND show_date = ?`, taskID, date)
	if err != nil {
		return storagef(err, "removing show date %s for task %s", date, taskID)
	}

	return nil
}

// ListShowDates returns all show dates for a task in ascending order.
func (d *Database) ListShowDates(ctx context.Context, taskID string) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT show_date FROM task_show_dates WHERE task_id = ? ORDER BY show_date`, taskID)
	if err != nil {
		return nil, storagef(err, "loading show dates for task %s", taskID)
	}
	defer rows.Close()

	var dates []string

	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, storagef(err, "scanning show date")
		}

		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning show dates")
	}

	return dates, nil
}

// HasShowDates reports whether a task has any show-date links at all.
func (d *Database) HasShowDates(ctx context.Context, taskID string) (bool, error) {
	var count int

	err := d.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_show_dates WHERE task_id = ?`, taskID).Scan(&count)
	if err != nil {
		return false, storagef(err, "counting show dates for task %s", taskID)
	}

	return count > 0, nil
}

// LogCompletion marks the occurrence of a recurring task on a date as done.
// The task's own status column is untouched.
func (d *Database) LogCompletion(ctx context.Context, taskID, date string) error {
	_, err := d.conn.ExecContext(ctx,
		`REPLACE INTO task_completion_log (task_id, completion_date) VALUES (?, ?)`, taskID, date)
	if err != nil {
		return storagef(err, "logging completion of task %s on %s", taskID, date)
	}

	return nil
}

// RemoveCompletionLog clears an occurrence completion, e.g. when the user
// unchecks a daily task.
func (d *Database) RemoveCompletionLog(ctx context.Context, taskID, date string) error {
	_, err := d.conn.ExecContext(ctx,
		`DELETE FROM task_completion_log WHERE task_id = ? AND completion_date = ?`, taskID, date)
	if err != nil {
		return storagef(err, "removing completion log of task %s on %s", taskID, date)
	}

	return nil
}

// IsLoggedComplete reports whether the occurrence on the date was completed.
func (d *Database) IsLoggedComplete(ctx context.Context, taskID, date string) (bool, error) {
	var one int

	err := d.conn.QueryRowContext(ctx,
		`SELECT 1 FROM task_completion_log WHERE task_id = ? AND completion_date = ?`,
		taskID, date).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, storagef(err, "checking completion log of task %s on %s", taskID, date)
	}

	return true, nil
}
