package notify_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/notify"
)

func TestUpcomingWindow(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	database, err := db.NewDatabase(ctx, filepath.Join(t.TempDir(), "test.sqlite"))
	assert.Nil(err)

	now := time.Date(2024, 6, 10, 13, 50, 0, 0, time.Local)
	date := now.Format(db.DateFormat)

	for _, event := range []*db.ScheduleEvent{
		{Date: date, Title: "starts in 10 min", StartTime: "14:00", EndTime: "15:00"},
		{Date: date, Title: "starts in 20 min", StartTime: "14:10", EndTime: "15:00"},
		{Date: date, Title: "already started", StartTime: "13:45", EndTime: "15:00"},
		{Date: "2024-06-11", Title: "tomorrow", StartTime: "14:00", EndTime: "15:00"},
	} {
		assert.Nil(database.InsertScheduleEvent(ctx, event))
	}

	checker := notify.NewChecker(database)

	upcoming, err := checker.Upcoming(ctx, now, 15*time.Minute)
	assert.Nil(err)
	assert.Len(upcoming, 1)
	assert.Equal("starts in 10 min", upcoming[0].Title)

	// a wider window picks up the later event too
	upcoming, err = checker.Upcoming(ctx, now, 30*time.Minute)
	assert.Nil(err)
	assert.Len(upcoming, 2)
}

func TestUpcomingBoundary(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	database, err := db.NewDatabase(ctx, filepath.Join(t.TempDir(), "test.sqlite"))
	assert.Nil(err)

	now := time.Date(2024, 6, 10, 13, 45, 0, 0, time.Local)
	date := now.Format(db.DateFormat)

	assert.Nil(database.InsertScheduleEvent(ctx, &db.ScheduleEvent{
		Date: date, Title: "exactly at the edge", StartTime: "14:00", EndTime: "15:00",
	}))

	checker := notify.NewChecker(database)

	// the window is half-open: (now, now+lead]
	upcoming, err := checker.Upcoming(ctx, now, 15*time.Minute)
	assert.Nil(err)
	assert.Len(upcoming, 1)

	upcoming, err = checker.Upcoming(ctx, now.Add(16*time.Minute), 15*time.Minute)
	assert.Nil(err)
	assert.Empty(upcoming)
}
