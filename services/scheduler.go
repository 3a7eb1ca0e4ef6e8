package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const reconcileBatch = 50

// ReconcileScheduler periodically retries failed match reconciliations.
type ReconcileScheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

func NewReconcileScheduler(acts ActService, interval time.Duration, logger *slog.Logger) (*ReconcileScheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) {
			if _, err := acts.ReconcilePending(ctx, reconcileBatch); err != nil {
				logger.Error("reconciliation retry failed", slog.Any("error", err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("reconcile-acts"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}

	return &ReconcileScheduler{sched: sched, logger: logger}, nil
}

// Run starts the scheduler and blocks until ctx is done.
func (r *ReconcileScheduler) Run(ctx context.Context) error {
	r.sched.Start()
	r.logger.Info("reconciliation scheduler started")
	<-ctx.Done()
	if err := r.sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	r.logger.Info("reconciliation scheduler stopped")
	return nil
}
