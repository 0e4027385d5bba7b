package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/repository"
)

// HistoryPruner deletes projection history older than the retention window on
// a cron schedule.
type HistoryPruner struct {
	repo      repository.ProjectionRepository
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	log       logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewHistoryPruner(
	repo repository.ProjectionRepository,
	retention time.Duration,
	schedule string,
	log logging.Logger,
	m *metrics.Metrics,
) *HistoryPruner {
	if log == nil {
		log = logging.NewNop()
	}
	return &HistoryPruner{
		repo:      repo,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
		log:       log.Named("pruner"),
		metrics:   m,
		now:       time.Now,
	}
}

// Start registers the job and starts the scheduler. A zero retention keeps
// history forever and schedules nothing.
func (p *HistoryPruner) Start() error {
	if p.retention <= 0 {
		p.log.Info("history retention disabled")
		return nil
	}
	if _, err := p.cron.AddFunc(p.schedule, func() {
		if _, err := p.Prune(context.Background()); err != nil {
			p.log.Error("history prune failed", logging.Err(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule history pruning %q: %w", p.schedule, err)
	}
	p.cron.Start()
	p.log.Info("history pruning scheduled",
		logging.String("schedule", p.schedule),
		logging.Duration("retention", p.retention))
	return nil
}

// Stop halts the scheduler. The returned context is done once a running job
// has finished.
func (p *HistoryPruner) Stop() context.Context {
	return p.cron.Stop()
}

// Prune deletes everything older than the retention window.
func (p *HistoryPruner) Prune(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	p.metrics.Pruned(n)
	p.log.Info("history pruned", logging.Int("removed", int(n)))
	return n, nil
}
