// Package notify computes which schedule events are about to start. It is a
// pure read over the day's events plus a time comparison; delivering the
// notification is someone else's job.
package notify

import (
	"context"
	"time"

	"github.com/matt-steen/day-planner/pkg/db"
)

// Checker answers "which events start within the lead window".
type Checker struct {
	db *db.Database
}

// NewChecker creates a Checker over an open database.
func NewChecker(database *db.Database) *Checker {
	return &Checker{db: database}
}

// Upcoming returns today's schedule events whose start time falls inside
// (now, now+lead]. Events already started are excluded.
func (c *Checker) Upcoming(ctx context.Context, now time.Time, lead time.Duration) ([]*db.ScheduleEvent, error) {
	events, err := c.db.ListScheduleEventsForDate(ctx, now.Format(db.DateFormat))
	if err != nil {
		return nil, err
	}

	var upcoming []*db.ScheduleEvent

	for _, event := range events {
		start, err := time.Parse(db.TimeFormat, event.StartTime)
		if err != nil {
			continue
		}

		startAt := time.Date(now.Year(), now.Month(), now.Day(),
			start.Hour(), start.Minute(), 0, 0, now.Location())

		until := startAt.Sub(now)
		if until > 0 && until <= lead {
			upcoming = append(upcoming, event)
		}
	}

	return upcoming, nil
}
