package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// JobSpec describes one recurring job. Exactly one of Every or Cron must be
// set. Run receives the registry's base context and reports job failure;
// failures are logged, never propagated, so one bad tick cannot stop the
// schedule.
type JobSpec struct {
	ID    string
	Every time.Duration
	Cron  string
	Run   func(ctx context.Context) error
}

type job struct {
	spec    JobSpec
	running atomic.Bool
}

// Registry owns the recurring jobs. Each job runs with max-concurrency 1:
// a tick that fires while the previous run is still going is skipped and
// logged, never queued.
type Registry struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger
	jobs      map[string]*job

	baseCtx atomic.Pointer[context.Context]
}

func NewRegistry(logger *logging.Logger, opts ...gocron.SchedulerOption) (*Registry, error) {
	if logger == nil {
		logger = logging.Default()
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Registry{
		scheduler: s,
		logger:    logger,
		jobs:      make(map[string]*job),
	}, nil
}

func (r *Registry) Register(spec JobSpec) error {
	if spec.ID == "" {
		return fmt.Errorf("job id is required")
	}
	if spec.Run == nil {
		return fmt.Errorf("job %s: run function is required", spec.ID)
	}
	if (spec.Every > 0) == (spec.Cron != "") {
		return fmt.Errorf("job %s: exactly one of interval or cron expression is required", spec.ID)
	}
	if _, exists := r.jobs[spec.ID]; exists {
		return fmt.Errorf("job %s: already registered", spec.ID)
	}

	j := &job{spec: spec}

	var def gocron.JobDefinition
	if spec.Every > 0 {
		def = gocron.DurationJob(spec.Every)
	} else {
		def = gocron.CronJob(spec.Cron, false)
	}

	_, err := r.scheduler.NewJob(
		def,
		gocron.NewTask(func() { r.execute(j) }),
		gocron.WithName(spec.ID),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", spec.ID, err)
	}

	r.jobs[spec.ID] = j
	return nil
}

// Start begins firing jobs on their schedules. ctx becomes the base context
// passed to every run; cancelling it makes in-flight runs wind down.
func (r *Registry) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.baseCtx.Store(&ctx)
	r.scheduler.Start()
	r.logger.Info("scheduler started", "jobs", len(r.jobs))
}

// Stop shuts the scheduler down, waiting for in-flight runs to finish.
func (r *Registry) Stop() error {
	if err := r.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	r.logger.Info("scheduler stopped")
	return nil
}

// RunNow triggers a registered job outside its schedule, with the same
// overlap guard as a scheduled tick.
func (r *Registry) RunNow(id string) error {
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: not registered", id)
	}
	r.execute(j)
	return nil
}

func (r *Registry) execute(j *job) {
	if !j.running.CompareAndSwap(false, true) {
		r.logger.Warn("job still running, skipping tick", "job", j.spec.ID)
		return
	}
	defer j.running.Store(false)

	ctx := context.Background()
	if p := r.baseCtx.Load(); p != nil {
		ctx = *p
	}

	started := time.Now()
	r.logger.Debug("job started", "job", j.spec.ID)
	if err := j.spec.Run(ctx); err != nil {
		r.logger.ErrorContext(ctx, "job failed", "job", j.spec.ID, "duration", time.Since(started), "error", err)
		return
	}
	r.logger.Info("job finished", "job", j.spec.ID, "duration", time.Since(started))
}
