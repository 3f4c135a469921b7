package db

import (
	"context"
	"database/sql"
)

// AddCategory registers a category name; re-adding is a no-op.
func (d *Database) AddCategory(ctx context.Context, name string) error {
	return d.addName(ctx, "categories", name)
}

// DeleteCategory removes a category from the registry. Tasks keep their
// category string; the registry only feeds pickers.
func (d *Database) DeleteCategory(ctx context.Context, name string) error {
	return d.deleteName(ctx, "categories", name)
}

// ListCategories returns all registered category names.
func (d *Database) ListCategories(ctx context.Context) ([]string, error) {
	return d.listNames(ctx, "categories")
}

// AddTag registers a tag name; re-adding is a no-op.
func (d *Database) AddTag(ctx context.Context, name string) error {
	return d.addName(ctx, "tags", name)
}

// DeleteTag removes a tag from the registry.
func (d *Database) DeleteTag(ctx context.Context, name string) error {
	return d.deleteName(ctx, "tags", name)
}

// ListTags returns all registered tag names.
func (d *Database) ListTags(ctx context.Context) ([]string, error) {
	return d.listNames(ctx, "tags")
}

func (d *Database) addName(ctx context.Context, table, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO `+table+` (name) VALUES (?)`, name)
	if err != nil {
		return storagef(err, "adding %s '%s'", table, name)
	}

	return nil
}

func (d *Database) deleteName(ctx context.Context, table, name string) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM `+table+` WHERE name = ?`, name)
	if err != nil {
		return storagef(err, "deleting %s '%s'", table, name)
	}

	return nil
}

func (d *Database) listNames(ctx context.Context, table string) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, storagef(err, "loading %s", table)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storagef(err, "scanning %s", table)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning %s", table)
	}

	return names, nil
}

// InsertFocusEntry records a finished focus session.
func (d *Database) InsertFocusEntry(ctx context.Context, entry *FocusEntry) error {
	if entry.Minutes <= 0 {
		return &ValidationError{Field: "minutes", Reason: "must be positive"}
	}

	if entry.ID == "" {
		entry.ID = NewID()
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO focus_log (id, date, start_time, minutes, task_id) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Date, nullable(entry.StartTime), entry.Minutes, nullable(entry.TaskID))
	if err != nil {
		return storagef(err, "adding focus entry on %s", entry.Date)
	}

	return nil
}

// ListFocusEntriesForDate returns the day's focus sessions in start order.
func (d *Database) ListFocusEntriesForDate(ctx context.Context, date string) ([]*FocusEntry, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, date, start_time, minutes, task_id
		 FROM focus_log WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, storagef(err, "loading focus entries for %s", date)
	}
	defer rows.Close()

	var entries []*FocusEntry

	for rows.Next() {
		var entry FocusEntry

		var start, taskID sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Date, &start, &entry.Minutes, &taskID); err != nil {
			return nil, storagef(err, "scanning focus entry")
		}

		entry.StartTime = start.String
		entry.TaskID = taskID.String

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, storagef(err, "scanning focus entries")
	}

	return entries, nil
}

// FocusMinutesForDate sums the focused minutes logged on a date.
func (d *Database) FocusMinutesForDate(ctx context.Context, date string) (int, error) {
	var total int

	err := d.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(minutes), 0) FROM focus_log WHERE date = ?`, date).Scan(&total)
	if err != nil {
		return 0, storagef(err, "summing focus minutes for %s", date)
	}

	return total, nil
}
