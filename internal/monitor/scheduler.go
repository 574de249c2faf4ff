package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance around the registry: a coarse
// safety-net refresh across all coordinators and a health sweep that logs
// degraded coordinators. Per-source scheduling lives in the coordinators
// themselves.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
	log      *slog.Logger
}

// NewScheduler creates a Scheduler. refreshInterval of zero disables the
// safety-net refresh; the health sweep always runs at sweepInterval.
func NewScheduler(
	reg *Registry,
	refreshInterval time.Duration,
	sweepInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		registry: reg,
		log:      log,
	}

	if refreshInterval > 0 {
		if _, err := c.AddFunc(
			"@every "+refreshInterval.String(),
			s.runRefreshAll,
		); err != nil {
			return nil, err
		}
	}

	if _, err := c.AddFunc(
		"@every "+sweepInterval.String(),
		s.runHealthSweep,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRefreshAll() {
	s.log.Info("safety-net refresh starting")
	s.registry.RefreshAll()
}

func (s *Scheduler) runHealthSweep() {
	for _, st := range s.registry.Statuses() {
		if !st.Degraded {
			continue
		}
		s.log.Warn("coordinator degraded",
			"account", st.Account,
			"source", st.Source.String(),
			"failures", st.ConsecutiveFailures,
			"last_error", st.LastError)
	}
}
