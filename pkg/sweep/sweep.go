// Package sweep is the timing-driven driver around the core: it invokes the
// once-per-day automation sweep and the periodic upcoming-event check. The
// core's idempotence rules make it safe to run these repeatedly.
package sweep

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/matt-steen/day-planner/pkg/automation"
	"github.com/matt-steen/day-planner/pkg/notify"
)

// Sweeper owns the gocron scheduler and the two recurring jobs.
type Sweeper struct {
	scheduler *gocron.Scheduler
	engine    *automation.Engine
	checker   *notify.Checker
	lead      time.Duration
}

// New creates a Sweeper. lead is the notification window for the
// upcoming-event check.
func New(engine *automation.Engine, checker *notify.Checker, lead time.Duration) *Sweeper {
	scheduler := gocron.NewScheduler(time.Local)
	scheduler.SingletonModeAll()

	return &Sweeper{
		scheduler: scheduler,
		engine:    engine,
		checker:   checker,
		lead:      lead,
	}
}

// Start schedules the daily sweep at sweepTime (HH:MM) plus an immediate
// catch-up run, and the upcoming-event check every minute, then runs the
// scheduler asynchronously.
func (s *Sweeper) Start(ctx context.Context, sweepTime string) error {
	if _, err := s.scheduler.Every(1).Day().At(sweepTime).Do(func() {
		s.runSweep(ctx)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(1).Minute().Do(func() {
		s.checkUpcoming(ctx)
	}); err != nil {
		return err
	}

	// catch up immediately in case the process was not running at sweepTime
	s.runSweep(ctx)

	s.scheduler.StartAsync()
	log.Info().Str("sweep_time", sweepTime).Msg("sweep scheduler started")

	return nil
}

// Stop halts the scheduler.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
	log.Info().Msg("sweep scheduler stopped")
}

func (s *Sweeper) runSweep(ctx context.Context) {
	if _, err := s.engine.RunAllForToday(ctx); err != nil {
		log.Error().Err(err).Msg("daily automation sweep failed")
	}
}

func (s *Sweeper) checkUpcoming(ctx context.Context) {
	events, err := s.checker.Upcoming(ctx, time.Now(), s.lead)
	if err != nil {
		log.Error().Err(err).Msg("upcoming-event check failed")

		return
	}

	for _, event := range events {
		log.Info().Str("title", event.Title).Str("start", event.StartTime).
			Msg("schedule event starting soon")
	}
}
