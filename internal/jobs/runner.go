package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is used when RunnerConfig.Interval is not set.
const DefaultPollInterval = 30 * time.Minute

// ErrRunnerStarted is returned by Start on a runner that is already running.
var ErrRunnerStarted = errors.New("runner already started")

// Job is a unit of periodic work.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Run performs one pass. A returned error is logged; it does not stop
	// the runner or the remaining jobs.
	Run(ctx context.Context) error
}

// RunnerConfig holds configuration for the runner
type RunnerConfig struct {
	// Interval between passes. If zero, defaults to DefaultPollInterval
	Interval time.Duration
}

// Runner executes its jobs sequentially on a ticker.
type Runner struct {
	jobs       []Job
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewRunner creates a new Runner
func NewRunner(config RunnerConfig, logger *slog.Logger, jobs ...Job) *Runner {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "job_runner")

	return &Runner{
		jobs:   jobs,
		config: config,
		logger: logger,
		errHandler: func(job Job, err error) {
			logger.Error("job failed",
				"job", job.Name(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Start runs every job once and then keeps running them on each tick until
// Stop is called or ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancelFunc != nil {
		return ErrRunnerStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancelFunc = cancel

	r.wg.Add(1)
	go r.loop(runCtx)

	r.logger.Info("runner started",
		"jobs", len(r.jobs),
		"interval", r.config.Interval.String())
	return nil
}

// Stop cancels the running pass and waits for the loop to exit. The runner
// can be started again afterwards.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancelFunc
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()

	r.mu.Lock()
	r.cancelFunc = nil
	r.mu.Unlock()
	r.logger.Info("runner stopped")
}

// RunOnce executes every job a single time in registration order.
func (r *Runner) RunOnce(ctx context.Context) {
	for _, job := range r.jobs {
		if ctx.Err() != nil {
			return
		}
		r.runJob(ctx, job)
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

func (r *Runner) runJob(ctx context.Context, job Job) {
	log := r.logger.With("job", job.Name())

	defer func() {
		if p := recover(); p != nil {
			r.errHandler(job, fmt.Errorf("job panicked: %v", p))
		}
	}()

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		r.errHandler(job, err)
		return
	}
	log.Debug("job completed", "duration", time.Since(started).String())
}
