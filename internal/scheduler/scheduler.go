// Package scheduler runs the periodic price and corporate-action refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/logger"
)

// Step is one stage of a scheduled run.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs its steps in order on a cron schedule with seconds precision.
// A run that is still in progress when the next one is due causes that run to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	steps    []Step
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler. An empty schedule returns a disabled scheduler whose Start and
// Stop do nothing. Returns an error if the schedule does not parse.
func New(schedule string, steps ...Step) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		schedule: schedule,
		steps:    steps,
		ctx:      ctx,
		cancel:   cancel,
	}
	if schedule == "" {
		return s, nil
	}

	cl := cronLogger{log: logger.Get()}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(schedule, func() { s.Run(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Enabled reports whether the scheduler has a schedule.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins running on the schedule in the background.
func (s *Scheduler) Start() {
	if s.cron == nil {
		logger.Get().Info("periodic refresh disabled")
		return
	}
	s.cron.Start()
	logger.Get().Infow("periodic refresh scheduled", "schedule", s.schedule, "next", s.cron.Entries()[0].Next)
}

// Stop prevents further runs, cancels the running one and waits for it until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduled refresh did not stop: %w", ctx.Err())
	}
}

// Run executes every step once, in order. A failing step is logged and the remaining steps
// still run.
func (s *Scheduler) Run(ctx context.Context) {
	start := time.Now()
	failed := 0
	for _, step := range s.steps {
		if ctx.Err() != nil {
			logger.Get().Warnw("scheduled refresh cancelled", "step", step.Name)
			return
		}
		if err := step.Run(ctx); err != nil {
			failed++
			logger.Get().Errorw("scheduled step failed", "step", step.Name, "error", err)
		}
	}
	logger.Get().Infow("scheduled refresh finished", "steps", len(s.steps), "failed", failed, "duration", time.Since(start))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
