package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/telemetry/logging"

	"github.com/robfig/cron/v3"
)

// Pruner enforces the retention limits of a store.
type Pruner struct {
	store     Store
	maxAge    time.Duration
	maxBuilds int64
	logger    *logging.Logger
	now       func() time.Time
}

// NewPruner creates a pruner applying the age and count limits of cfg.
func NewPruner(store Store, cfg config.HistoryConfig, logger *logging.Logger) *Pruner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pruner{
		store:     store,
		maxAge:    cfg.MaxAge,
		maxBuilds: int64(cfg.MaxBuilds),
		logger:    logger.With("component", "history.retention"),
		now:       time.Now,
	}
}

// Prune deletes builds older than the maximum age, then the oldest
// builds beyond the maximum count. It returns the number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.maxAge > 0 {
		deleted, err := p.store.DeleteBefore(ctx, p.now().Add(-p.maxAge))
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.maxBuilds > 0 {
		count, err := p.store.Count(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		if excess := count - p.maxBuilds; excess > 0 {
			deleted, err := p.store.DeleteOldest(ctx, excess)
			if err != nil {
				return total, fmt.Errorf("prune by count failed: %w", err)
			}
			total += deleted
		}
	}

	if total > 0 {
		p.logger.Info("build history pruned",
			"deleted", total,
			"max_age", p.maxAge.String(),
			"max_builds", p.maxBuilds,
		)
	}
	return total, nil
}

// Scheduler runs a pruner on a cron schedule.
type Scheduler struct {
	pruner   *Pruner
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a scheduler for the standard cron expression or
// descriptor (such as "@hourly") in schedule.
func NewScheduler(pruner *Pruner, schedule string) *Scheduler {
	return &Scheduler{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules pruning until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.pruner.logger.Debug("history pruning scheduled", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.pruner.logger.Error("scheduled history pruning failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

// NextRun returns the next scheduled prune, or the zero time when the
// scheduler is not running.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
