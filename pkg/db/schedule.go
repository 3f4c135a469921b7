package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// InsertScheduleEvent adds a timed block to the day schedule, assigning an id
// when the caller left it empty. The time range is validated here so every
// producer (dialogs, automations, CLI) hits the same check.
func (d *Database) InsertScheduleEvent(ctx context.Context, event *ScheduleEvent) error {
	if err := validateTimeRange(event.StartTime, event.EndTime); err != nil {
		return err
	}

	if event.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if event.ID == "" {
		event.ID = NewID()
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO schedule_events (id, date, start_time, end_time, title, color)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Date, event.StartTime, event.EndTime, event.Title, nullable(event.Color))
	if err != nil {
		return storagef(err, "adding schedule event '%s'", event.Title)
	}

	return nil
}

// GetScheduleEvent fetches a single schedule event by id.
func (d *Database) GetScheduleEvent(ctx context.Context, id string) (*ScheduleEvent, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, date, start_time, end_time, title, color FROM schedule_events WHERE id = ?`, id)

	event, err := scanScheduleEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "schedule event", ID: id}
	}

	if err != nil {
		return nil, storagef(err, "loading schedule event %s", id)
	}

	return event, nil
}

// UpdateScheduleEvent rewrites an existing schedule event.
func (d *Database) UpdateScheduleEvent(ctx context.Context, event *ScheduleEvent) error {
	if err := validateTimeRange(event.StartTime, event.EndTime); err != nil {
		return err
	}

	result, err := d.conn.ExecContext(ctx,
		`UPDATE schedule_events SET date = ?, start_time = ?, end_time = ?, title = ?, color = ?
		 WHERE id = ?`,
		event.Date, event.StartTime, event.EndTime, event.Title, nullable(event.Color), event.ID)
	if err != nil {
		return storagef(err, "updating schedule event %s", event.ID)
	}

	return requireRow(result, "schedule event", event.ID)
}

// DeleteScheduleEvent removes an event and unlinks (not deletes) its tasks
// within a single transaction.
func (d *Database) DeleteScheduleEvent(ctx context.Context, id string) error {
	return d.withTx(ctx, "schedule event delete", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM schedule_events WHERE id = ?`, id)
		if err != nil {
			return storagef(err, "deleting schedule event %s", id)
		}

		if err := requireRow(result, "schedule event", id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET schedule_event_id = NULL WHERE schedule_event_id = ?`, id); err != nil {
			return storagef(err, "unlinking tasks from event %s", id)
		}

		return nil
	})
}

// ListScheduleEventsForDate returns the day's blocks ordered by start time.
func (d *Database) ListScheduleEventsForDate(ctx context.Context, date string) ([]*ScheduleEvent, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, date, start_time, end_time, title, color
		 FROM schedule_events WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, storagef(err, "loading schedule events for %s", date)
	}
	defer rows.Close()

	var events []*ScheduleEvent

	for rows.Next() {
		event, err := scanScheduleEvent(rows)
		if err != nil {
			return nil, storagef(err, "scanning schedule event")
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning schedule events")
	}

	return events, nil
}

func scanScheduleEvent(row rowScanner) (*ScheduleEvent, error) {
	var event ScheduleEvent

	var color sql.NullString

	err := row.Scan(&event.ID, &event.Date, &event.StartTime, &event.EndTime, &event.Title, &color)
	if err != nil {
		return nil, err
	}

	event.Color = color.String

	return &event, nil
}

// validateTimeRange rejects unparseable HH:MM values and ranges where the
// end does not come after the start.
func validateTimeRange(start, end string) error {
	startAt, err := time.Parse(TimeFormat, start)
	if err != nil {
		return &ValidationError{Field: "start time", Reason: "must be HH:MM"}
	}

	endAt, err := time.Parse(TimeFormat, end)
	if err != nil {
		return &ValidationError{Field: "end time", Reason: "must be HH:MM"}
	}

	if !endAt.After(startAt) {
		return &ValidationError{Field: "time range", Reason: "end must be after start"}
	}

	return nil
}
