package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// Keys seeded into app_state by the base schema.
const (
	StateLastAutomationRun = "last_automation_run_date"
	StateTheme             = "theme"
	StateUserName          = "user_name"
	StatePomodoroWork      = "pomodoro_work_min"
	StatePomodoroShort     = "pomodoro_short_break_min"
	StatePomodoroLong      = "pomodoro_long_break_min"
	StatePomodoroSessions  = "pomodoro_sessions"
)

// GetState returns the value for an app_state key, or "" when unset.
func (d *Database) GetState(ctx context.Context, key string) (string, error) {
	var value string

	err := d.conn.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", storagef(err, "loading app state '%s'", key)
	}

	return value, nil
}

// SetState upserts an app_state key.
func (d *Database) SetState(ctx context.Context, key, value string) error {
	_, err := d.conn.ExecContext(ctx, `REPLACE INTO app_state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return storagef(err, "saving app state '%s'", key)
	}

	return nil
}

// PomodoroSettings are the stored focus-timer durations, in minutes.
type PomodoroSettings struct {
	WorkMin       int
	ShortBreakMin int
	LongBreakMin  int
	Sessions      int
}

// GetPomodoroSettings reads the seeded timer durations.
func (d *Database) GetPomodoroSettings(ctx context.Context) (PomodoroSettings, error) {
	settings := PomodoroSettings{}

	for _, entry := range []struct {
		key  string
		dest *int
	}{
		{StatePomodoroWork, &settings.WorkMin},
		{StatePomodoroShort, &settings.ShortBreakMin},
		{StatePomodoroLong, &settings.LongBreakMin},
		{StatePomodoroSessions, &settings.Sessions},
	} {
		value, err := d.GetState(ctx, entry.key)
		if err != nil {
			return PomodoroSettings{}, err
		}

		minutes, err := strconv.Atoi(value)
		if err != nil {
			return PomodoroSettings{}, &ValidationError{Field: entry.key, Reason: "must be a number"}
		}

		*entry.dest = minutes
	}

	return settings, nil
}
