package utils

import (
	"context"
	"time"

	"learnhub/logger"

	"github.com/robfig/cron/v3"
)

// Reconciler recomputes every enrollment's progress.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (int, error)
}

// InitializeProgressScheduler starts a cron job that reconciles course
// progress on the given schedule. The caller stops it on shutdown.
func InitializeProgressScheduler(schedule string, r Reconciler) (*cron.Cron, error) {
	logger.Log.Info("[PROGRESS-SCHEDULER] Initializing progress scheduler", "schedule", schedule)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		RunProgressReconciliation(r)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[PROGRESS-SCHEDULER] Progress scheduler started", "schedule", schedule)
	return c, nil
}

// RunProgressReconciliation performs one reconciliation pass.
func RunProgressReconciliation(r Reconciler) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	started := time.Now()
	logger.Log.Info("[PROGRESS-SCHEDULER] Running progress reconciliation")

	n, err := r.ReconcileAll(ctx)
	if err != nil {
		logger.Log.Error("[PROGRESS-SCHEDULER] Reconciliation failed", "processed", n, "error", err)
		return
	}
	logger.Log.Info("[PROGRESS-SCHEDULER] Reconciliation finished", "processed", n, "took", time.Since(started).String())
}
