package automation_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matt-steen/day-planner/pkg/automation"
	"github.com/matt-steen/day-planner/pkg/db"
)

func getEngine(t *testing.T, assert *assert.Assertions) (*automation.Engine, *db.Database) {
	t.Helper()

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	assert.Nil(err)

	return automation.NewEngine(database), database
}

func saveShiftRule(assert *assert.Assertions, database *db.Database, days int) *db.Automation {
	rule := &db.Automation{
		RuleName:     "late shift prep",
		TriggerTitle: "Late Shift",
		TriggerDays:  days,
		Actions: []*db.AutomationAction{
			{ActionType: db.ActionEnsureTask, Param1: "Prep shift", Param2: db.PriorityHigh, Param3: "Work"},
			{ActionType: db.ActionCreateScheduleBlock, Param1: "Dispatch", Param2: "14:00", Param3: "15:00"},
		},
	}

	assert.Nil(database.SaveAutomation(context.Background(), rule))

	return rule
}

func TestRunForEventExecutesActions(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	rule := saveShiftRule(assert, database, db.DayMask(time.Monday))

	// 2024-06-10 is a Monday; trigger matching ignores case
	ran, err := engine.RunForEvent(ctx, "late shift", "2024-06-10")
	assert.Nil(err)
	assert.True(ran)

	task, err := database.FindAutomationTask(ctx, rule.ID, "Prep shift")
	assert.Nil(err)
	assert.NotNil(task)
	assert.Equal(db.PriorityHigh, task.Priority)
	assert.Equal("Work", task.Category)
	assert.Equal(rule.ID, task.CreatedByAutomationID)
	assert.Equal("Auto-generated by automation rule.", task.Notes)

	dates, err := database.ListShowDates(ctx, task.ID)
	assert.Nil(err)
	assert.Equal([]string{"2024-06-10"}, dates)

	blocks, err := database.ListScheduleEventsForDate(ctx, "2024-06-10")
	assert.Nil(err)
	assert.Len(blocks, 1)
	assert.Equal("Dispatch", blocks[0].Title)
	assert.Equal("14:00", blocks[0].StartTime)
	assert.Equal("15:00", blocks[0].EndTime)
	assert.Equal("#6A1B9A", blocks[0].Color)

	// the ensured task is linked to the created block
	assert.Equal(blocks[0].ID, task.ScheduleEventID)
}

func TestRunForEventTaskActionIsIdempotent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	for i := 0; i < 2; i++ {
		ran, err := engine.RunForEvent(ctx, "Late Shift", "2024-06-10")
		assert.Nil(err)
		assert.True(ran)
	}

	pending, err := database.ListAllPendingTasks(ctx)
	assert.Nil(err)
	assert.Len(pending, 1)

	// schedule blocks are date-scoped artifacts and are created every run
	blocks, err := database.ListScheduleEventsForDate(ctx, "2024-06-10")
	assert.Nil(err)
	assert.Len(blocks, 2)
}

func TestRunForEventHonorsDayMask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, db.DayMask(time.Monday))

	// 2024-06-08 is a Saturday
	ran, err := engine.RunForEvent(ctx, "Late Shift", "2024-06-08")
	assert.Nil(err)
	assert.False(ran)

	pending, err := database.ListAllPendingTasks(ctx)
	assert.Nil(err)
	assert.Empty(pending)
}

func TestRunForEventZeroMaskFiresAnyDay(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	ran, err := engine.RunForEvent(ctx, "Late Shift", "2024-06-08")
	assert.Nil(err)
	assert.True(ran)
}

func TestRunForEventNoMatchingRule(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	ran, err := engine.RunForEvent(ctx, "Dentist", "2024-06-10")
	assert.Nil(err)
	assert.False(ran)

	ran, err = engine.RunForEvent(ctx, "", "2024-06-10")
	assert.Nil(err)
	assert.False(ran)
}

func TestRunForEventBadDate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	var validation *db.ValidationError

	_, err := engine.RunForEvent(ctx, "Late Shift", "June 10th")
	assert.ErrorAs(err, &validation)
}

func TestRunAllForDate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	assert.Nil(database.InsertCalendarEvent(ctx, &db.CalendarEvent{
		Date: "2024-06-10", Title: "Late Shift",
	}))
	assert.Nil(database.InsertCalendarEvent(ctx, &db.CalendarEvent{
		Date: "2024-06-10", Title: "Dentist",
	}))

	ran, err := engine.RunAllForDate(ctx, "2024-06-10")
	assert.Nil(err)
	assert.True(ran)

	pending, err := database.ListAllPendingTasks(ctx)
	assert.Nil(err)
	assert.Len(pending, 1)
}

func TestRunAllForTodayRunsOncePerDay(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	engine, database := getEngine(t, assert)

	saveShiftRule(assert, database, 0)

	today := time.Now().Format(db.DateFormat)

	assert.Nil(database.InsertCalendarEvent(ctx, &db.CalendarEvent{Date: today, Title: "Late Shift"}))

	ran, err := engine.RunAllForToday(ctx)
	assert.Nil(err)
	assert.True(ran)

	state, err := automation.LoadRunState(ctx, database)
	assert.Nil(err)
	assert.Equal(today, state.LastRunDate)

	// second sweep on the same day is a no-op
	ran, err = engine.RunAllForToday(ctx)
	assert.Nil(err)
	assert.False(ran)

	blocks, err := database.ListScheduleEventsForDate(ctx, today)
	assert.Nil(err)
	assert.Len(blocks, 1)
}
