package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/choreclock/internal/lifecycle"
)

// Sweeper is the part of the lifecycle controller the sweep job needs.
type Sweeper interface {
	Sweep(ctx context.Context) (lifecycle.SweepResult, error)
}

// ResetSweepJob resets completed tasks whose recurrence boundary has passed.
type ResetSweepJob struct {
	sweeper Sweeper
	logger  *slog.Logger
}

var _ Job = (*ResetSweepJob)(nil)

// NewResetSweepJob creates the sweep job.
func NewResetSweepJob(sweeper Sweeper, logger *slog.Logger) *ResetSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetSweepJob{
		sweeper: sweeper,
		logger:  logger.With("component", "reset_sweep_job"),
	}
}

// Name implements Job.
func (j *ResetSweepJob) Name() string { return "reset_sweep" }

// Run implements Job.
func (j *ResetSweepJob) Run(ctx context.Context) error {
	result, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("reset sweep failed: %w", err)
	}
	if len(result.Reset) > 0 {
		j.logger.Info("tasks reset",
			"count", len(result.Reset),
			"task_ids", result.Reset)
	}
	return nil
}
