package notifier

import (
	"context"
	"time"

	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

// Pruner periodically deletes notifications older than the retention window.
type Pruner struct {
	repo      repository.NotificationRepository
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

func NewPruner(repo repository.NotificationRepository, retention, interval time.Duration, logger *zap.Logger) *Pruner {
	return &Pruner{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

// Start blocks until ctx is cancelled, pruning on every tick.
func (p *Pruner) Start(ctx context.Context) {
	mylogger.Info(
		ctx,
		p.logger,
		"Notification pruner started ✅",
		zap.Duration("retention", p.retention),
		zap.Duration("interval", p.interval),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mylogger.Info(ctx, p.logger, "Notification pruner stopped")
			return
		case <-ticker.C:
			p.pruneOnce(ctx)
		}
	}
}

func (p *Pruner) pruneOnce(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)

	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		mylogger.Error(
			ctx,
			p.logger,
			"Failed to prune notifications",
			zap.Error(err),
		)
		return
	}

	if deleted > 0 {
		mylogger.Info(
			ctx,
			p.logger,
			"Pruned old notifications",
			zap.Int64("deleted", deleted),
		)
	}
}
