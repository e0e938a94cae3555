package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/notify"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the reminder clock and the idle session reaper for
// sessions.
func NewWorkers(sessions SessionSet, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		NewReminderClock(sessions, cfg.ClockInterval, logger),
		NewSessionReaper(sessions, cfg.SessionIdleTTL, logger),
	}}
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// ReminderClock re-evaluates the active reminders of every live session, so
// reminders become due without a data change.
type ReminderClock struct {
	clock    *notify.Clock
	interval time.Duration
	logger   *logger.Logger
}

func NewReminderClock(sessions SessionSet, interval time.Duration, logger *logger.Logger) *ReminderClock {
	return &ReminderClock{
		clock:    notify.NewClock(sessions.Tick),
		interval: interval,
		logger:   logger,
	}
}

func (c *ReminderClock) Run(ctx context.Context) {
	c.logger.Info().Dur("interval", c.interval).Msg("reminder clock started")
	c.clock.Start(ctx, c.interval)
}

func (c *ReminderClock) Stop() {
	c.clock.Stop()
	c.logger.Info().Msg("reminder clock stopped")
}

// SessionReaper closes live sessions that were not used for ttl and have no
// stream watchers. It checks twice per ttl.
type SessionReaper struct {
	clock  *notify.Clock
	ttl    time.Duration
	logger *logger.Logger
}

func NewSessionReaper(sessions SessionSet, ttl time.Duration, logger *logger.Logger) *SessionReaper {
	r := &SessionReaper{ttl: ttl, logger: logger}
	r.clock = notify.NewClock(func(now time.Time) {
		if n := sessions.EvictIdle(now, r.ttl); n > 0 {
			r.logger.Info().Int("evicted", n).Msg("idle live sessions closed")
		}
	})
	return r
}

func (r *SessionReaper) Run(ctx context.Context) {
	r.logger.Info().Dur("ttl", r.ttl).Msg("session reaper started")
	r.clock.Start(ctx, r.ttl/2)
}

func (r *SessionReaper) Stop() {
	r.clock.Stop()
}
