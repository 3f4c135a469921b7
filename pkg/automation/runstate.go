package automation

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matt-steen/day-planner/pkg/db"
)

// RunState is the persisted marker that keeps the daily sweep from repeating
// within one calendar day. It is loaded and stored explicitly rather than
// kept as hidden package state.
type RunState struct {
	LastRunDate string
}

// LoadRunState reads the marker from the store.
func LoadRunState(ctx context.Context, database *db.Database) (RunState, error) {
	date, err := database.GetState(ctx, db.StateLastAutomationRun)
	if err != nil {
		return RunState{}, err
	}

	return RunState{LastRunDate: date}, nil
}

// Save persists the marker.
func (s RunState) Save(ctx context.Context, database *db.Database) error {
	return database.SetState(ctx, db.StateLastAutomationRun, s.LastRunDate)
}

// RunAllForToday runs the full sweep over today's calendar events unless the
// marker shows it already ran today. The marker advances even when no event
// matched, so the scan does not repeat within the same day. Missed days are
// not caught up.
func (e *Engine) RunAllForToday(ctx context.Context) (bool, error) {
	today := time.Now().Format(db.DateFormat)

	state, err := LoadRunState(ctx, e.db)
	if err != nil {
		return false, err
	}

	if state.LastRunDate == today {
		log.Debug().Str("date", today).Msg("automations already ran today, skipping")

		return false, nil
	}

	ran, err := e.RunAllForDate(ctx, today)
	if err != nil {
		return ran, err
	}

	state.LastRunDate = today
	if err := state.Save(ctx, e.db); err != nil {
		return ran, err
	}

	log.Info().Str("date", today).Bool("actions_ran", ran).Msg("daily automation sweep complete")

	return ran, nil
}
