package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/oops"

	"github.com/placefinder/placefinder/internal/logging"
)

// Scheduler runs the syncer on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	syncer  *Syncer
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler parses schedule with the standard five-field parser, which also
// accepts descriptors such as "@hourly" and "@every 30m".
func NewScheduler(schedule string, syncer *Syncer, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), syncer: syncer, logger: logger, timeout: timeout}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, oops.In("catalog").With("schedule", schedule).Wrapf(err, "parse sync schedule")
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sync to finish or ctx to
// end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.syncer.Run(ctx); err != nil && s.logger != nil {
		logging.LogError(s.logger, "scheduled catalog sync failed", err)
	}
}
