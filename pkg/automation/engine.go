// Package automation evaluates calendar events against stored trigger rules
// and executes their actions: ensuring a task exists (idempotently) and
// creating schedule blocks, then cross-linking the two.
package automation

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matt-steen/day-planner/pkg/db"
)

// Color assigned to schedule blocks created by automations.
const blockColor = "#6A1B9A"

// Notes attached to tasks created by automations.
const autoTaskNotes = "Auto-generated by automation rule."

// Default category for tasks whose action omits one.
const defaultCategory = "Automation"

// Engine runs automation rules against calendar events. Rules are stateless;
// all bookkeeping lives in the store.
type Engine struct {
	db *db.Database
}

// NewEngine creates an Engine over an open database.
func NewEngine(database *db.Database) *Engine {
	return &Engine{db: database}
}

// RunForEvent checks a single calendar event title and date against the
// stored rules and executes the matching rule's actions. It reports whether
// any action ran, so the caller knows to refresh dependent views.
//
// Task actions are idempotent: a pending task already created by this rule
// with the same description is reused, and the show-date insert ignores
// duplicates. Schedule blocks are NOT idempotent - each run creates a fresh
// block, since blocks are date-scoped artifacts.
func (e *Engine) RunForEvent(ctx context.Context, eventTitle, date string) (bool, error) {
	if eventTitle == "" {
		return false, nil
	}

	rule, err := e.db.FindAutomationByTrigger(ctx, eventTitle)
	if err != nil {
		return false, err
	}

	if rule == nil {
		return false, nil
	}

	day, err := time.Parse(db.DateFormat, date)
	if err != nil {
		return false, &db.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if !rule.FiresOn(day.Weekday()) {
		log.Debug().Str("rule", rule.RuleName).Str("date", date).
			Stringer("weekday", day.Weekday()).Msg("rule day mask excludes event date")

		return false, nil
	}

	if len(rule.Actions) == 0 {
		log.Debug().Str("rule", rule.RuleName).Msg("rule matched but has no actions")

		return false, nil
	}

	log.Info().Str("rule", rule.RuleName).Str("event", eventTitle).Str("date", date).
		Msg("running automation rule")

	var taskIDs, eventIDs []string

	for _, action := range rule.Actions {
		if action.ActionType != db.ActionEnsureTask {
			continue
		}

		taskID, err := e.ensureTask(ctx, rule.ID, action, date)
		if err != nil {
			return len(taskIDs) > 0, err
		}

		if taskID != "" {
			taskIDs = append(taskIDs, taskID)
		}
	}

	for _, action := range rule.Actions {
		if action.ActionType != db.ActionCreateScheduleBlock {
			continue
		}

		eventID, err := e.createScheduleBlock(ctx, action, date)
		if err != nil {
			return len(taskIDs) > 0 || len(eventIDs) > 0, err
		}

		if eventID != "" {
			eventIDs = append(eventIDs, eventID)
		}
	}

	if len(taskIDs) > 0 && len(eventIDs) > 0 {
		if err := e.db.LinkTasksToEvents(ctx, taskIDs, eventIDs); err != nil {
			return true, err
		}

		log.Info().Int("tasks", len(taskIDs)).Int("events", len(eventIDs)).
			Msg("linked automation tasks to schedule blocks")
	}

	return len(taskIDs) > 0 || len(eventIDs) > 0, nil
}

// ensureTask finds the pending task this rule already created for the same
// description, or creates it, and in either case ensures a show date for the
// event date. Returns the task id, or "" when the action is skipped.
func (e *Engine) ensureTask(ctx context.Context, automationID string, action *db.AutomationAction, date string) (string, error) {
	description := action.Param1
	if description == "" {
		log.Warn().Str("automation_id", automationID).Msg("skipping task action with no description")

		return "", nil
	}

	task, err := e.db.FindAutomationTask(ctx, automationID, description)
	if err != nil {
		return "", err
	}

	if task == nil {
		priority := action.Param2
		if priority == "" {
			priority = db.PriorityMedium
		}

		category := action.Param3
		if category == "" {
			category = defaultCategory
		}

		task = &db.Task{
			Description:           description,
			Status:                db.StatusPending,
			DateAdded:             date,
			Priority:              priority,
			Category:              category,
			Notes:                 autoTaskNotes,
			CreatedByAutomationID: automationID,
			ShowMode:              db.ShowModeAuto,
		}

		if err := e.db.InsertTask(ctx, task); err != nil {
			return "", err
		}

		log.Info().Str("task_id", task.ID).Str("description", description).Msg("automation created task")
	} else {
		log.Debug().Str("task_id", task.ID).Str("description", description).Msg("automation reusing existing task")
	}

	if err := e.db.AddShowDate(ctx, task.ID, date); err != nil {
		return "", err
	}

	return task.ID, nil
}

// createScheduleBlock creates a fresh schedule event for the action. Returns
// the event id, or "" when the action is missing params.
func (e *Engine) createScheduleBlock(ctx context.Context, action *db.AutomationAction, date string) (string, error) {
	if action.Param1 == "" || action.Param2 == "" || action.Param3 == "" {
		log.Warn().Str("automation_id", action.AutomationID).Msg("skipping schedule action with missing params")

		return "", nil
	}

	event := &db.ScheduleEvent{
		Date:      date,
		Title:     action.Param1,
		StartTime: action.Param2,
		EndTime:   action.Param3,
		Color:     blockColor,
	}

	if err := e.db.InsertScheduleEvent(ctx, event); err != nil {
		return "", err
	}

	log.Info().Str("event_id", event.ID).Str("title", event.Title).Msg("automation created schedule block")

	return event.ID, nil
}

// RunAllForDate runs every matching rule for the date's calendar events.
func (e *Engine) RunAllForDate(ctx context.Context, date string) (bool, error) {
	events, err := e.db.ListCalendarEventsForDate(ctx, date)
	if err != nil {
		return false, err
	}

	ran := false

	for _, event := range events {
		eventRan, err := e.RunForEvent(ctx, event.Title, date)
		if err != nil {
			return ran, err
		}

		ran = ran || eventRan
	}

	return ran, nil
}
