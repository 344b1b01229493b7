// Package scheduler triggers the daily update-and-broadcast job on a cron
// schedule.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"econcal/internal/calendar"
	"econcal/internal/telegram"
)

// Scheduler runs the update pipeline on a fixed schedule and pushes the
// result to subscribers.
type Scheduler struct {
	cron    *cron.Cron
	service *calendar.Service
	bot     *telegram.Bot
	log     *zap.SugaredLogger
	baseCtx context.Context
}

// New creates a scheduler bound to baseCtx; jobs inherit it.
func New(service *calendar.Service, bot *telegram.Bot, log *zap.SugaredLogger, baseCtx context.Context) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		bot:     bot,
		log:     log,
		baseCtx: baseCtx,
	}
}

// Start registers the daily job and starts the cron loop. spec is a standard
// 5-field cron expression, e.g. "0 5 * * *" for 05:00 daily.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(s.baseCtx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "spec", spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Infow("scheduler stopped")
}

// RunOnce performs one update-and-broadcast cycle. Update failures are
// surfaced to subscribers as an error notification; the scheduler itself
// keeps running.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.log.Infow("starting scheduled update")

	count, err := s.service.Update(ctx)
	if err != nil {
		s.log.Errorw("scheduled update failed", "error", err)
		s.bot.NotifyError(ctx, err.Error())
		return
	}
	s.log.Infow("scheduled update complete", "events", count)

	sent, failed, err := s.bot.BroadcastDaily(ctx)
	if err != nil {
		s.log.Errorw("broadcast failed", "error", err)
		return
	}
	if failed > 0 {
		s.bot.NotifyError(ctx, "broadcast partially failed: some subscribers unreachable")
	}
	s.log.Infow("daily cycle complete", "sent", sent, "failed", failed)
}
