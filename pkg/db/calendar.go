package db

import (
	"context"
	"database/sql"
	"time"
)

// InsertCalendarEvent adds a rota marker to the monthly calendar.
func (d *Database) InsertCalendarEvent(ctx context.Context, event *CalendarEvent) error {
	if event.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if event.ID == "" {
		event.ID = NewID()
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO calendar_events (id, date, title, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.Date, event.Title, nullable(event.StartTime), nullable(event.EndTime))
	if err != nil {
		return storagef(err, "adding calendar event '%s'", event.Title)
	}

	return nil
}

// UpdateCalendarEvent rewrites the title and times of a calendar event.
func (d *Database) UpdateCalendarEvent(ctx context.Context, event *CalendarEvent) error {
	result, err := d.conn.ExecContext(ctx,
		`UPDATE calendar_events SET title = ?, start_time = ?, end_time = ? WHERE id = ?`,
		event.Title, nullable(event.StartTime), nullable(event.EndTime), event.ID)
	if err != nil {
		return storagef(err, "updating calendar event %s", event.ID)
	}

	return requireRow(result, "calendar event", event.ID)
}

// DeleteCalendarEvent removes a single rota marker.
func (d *Database) DeleteCalendarEvent(ctx context.Context, id string) error {
	result, err := d.conn.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return storagef(err, "deleting calendar event %s", id)
	}

	return requireRow(result, "calendar event", id)
}

// ListCalendarEventsForDate returns the date's rota markers.
func (d *Database) ListCalendarEventsForDate(ctx context.Context, date string) ([]*CalendarEvent, error) {
	return d.queryCalendarEvents(ctx,
		`SELECT id, date, title, start_time, end_time
		 FROM calendar_events WHERE date = ? ORDER BY start_time, title`, date)
}

// ListCalendarEventsForMonth returns every rota marker inside the month.
func (d *Database) ListCalendarEventsForMonth(ctx context.Context, year int, month time.Month) ([]*CalendarEvent, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return d.queryCalendarEvents(ctx,
		`SELECT id, date, title, start_time, end_time
		 FROM calendar_events WHERE date BETWEEN ? AND ? ORDER BY date, start_time, title`,
		first.Format(DateFormat), last.Format(DateFormat))
}

func (d *Database) queryCalendarEvents(ctx context.Context, query string, args ...interface{}) ([]*CalendarEvent, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storagef(err, "loading calendar events")
	}
	defer rows.Close()

	var events []*CalendarEvent

	for rows.Next() {
		var event CalendarEvent

		var start, end sql.NullString

		if err := rows.Scan(&event.ID, &event.Date, &event.Title, &start, &end); err != nil {
			return nil, storagef(err, "scanning calendar event")
		}

		event.StartTime = start.String
		event.EndTime = end.String

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning calendar events")
	}

	return events, nil
}
