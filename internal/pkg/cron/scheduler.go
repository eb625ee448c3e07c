package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// Observer is told about every finished job run.
type Observer func(name string, took time.Duration, err error)

// Scheduler runs housekeeping jobs on fixed intervals, each in its own
// goroutine. A job runs once right after Start and then on every tick; runs
// of the same job never overlap.
type Scheduler struct {
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger.With("component", "cron")}
}

// Observe installs the run observer. Call it before Start.
func (s *Scheduler) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// AddJob registers fn under a unique name. Jobs added after Start are
// rejected.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("cron: scheduler already started, cannot add %q", name)
	}
	if interval <= 0 {
		return fmt.Errorf("cron: job %q needs a positive interval", name)
	}
	for _, j := range s.jobs {
		if j.name == name {
			return fmt.Errorf("cron: job %q registered twice", name)
		}
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	s.logger.Info("Cron job registered", "name", name, "interval", interval)
	return nil
}

// Start launches every job. The jobs stop when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	s.logger.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the jobs and waits for the running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Cron scheduler stopped")
}

// RunNow runs the named job once on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var found *job
	for i := range s.jobs {
		if s.jobs[i].name == name {
			found = &s.jobs[i]
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("cron: unknown job %q", name)
	}
	return s.run(ctx, *found)
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_ = s.run(ctx, j)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.run(ctx, j)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j job) error {
	start := time.Now()
	err := j.fn(ctx)
	took := time.Since(start)

	if err != nil {
		s.logger.Error("Cron job failed", "name", j.name, "error", err, "duration", took)
	} else {
		s.logger.Debug("Cron job completed", "name", j.name, "duration", took)
	}

	s.mu.Lock()
	o := s.observer
	s.mu.Unlock()
	if o != nil {
		o(j.name, took, err)
	}
	return err
}
