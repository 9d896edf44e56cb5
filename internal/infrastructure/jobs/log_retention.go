package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"activation-service.backend/pkg/logger"
)

type logCleaner interface {
	CleanOldLogs(ctx context.Context, days int) (int64, error)
}

// LogRetentionJob periodically removes verification logs past the retention window
type LogRetentionJob struct {
	cleaner       logCleaner
	retentionDays int
	interval      time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

func NewLogRetentionJob(cleaner logCleaner, retentionDays int, interval time.Duration) *LogRetentionJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &LogRetentionJob{
		cleaner:       cleaner,
		retentionDays: retentionDays,
		interval:      interval,
		stop:          make(chan struct{}),
	}
}

func (j *LogRetentionJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting log retention job",
		zap.Duration("interval", j.interval),
		zap.Int("retention_days", j.retentionDays),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Log retention job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Log retention job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop ends Start. Safe to call more than once.
func (j *LogRetentionJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *LogRetentionJob) sweep(ctx context.Context) {
	deleted, err := j.cleaner.CleanOldLogs(ctx, j.retentionDays)
	if err != nil {
		logger.Error(ctx, "Log retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		logger.Info(ctx, "Log retention sweep finished", zap.Int64("deleted", deleted))
	}
}
