// Package scheduler runs the periodic broadcast on a cron expression.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-countdown/internal/config"
)

// Job is the unit of scheduled work. It receives the context given to Start.
type Job func(ctx context.Context)

// Scheduler wraps a cron runner bound to one job and one time zone.
type Scheduler struct {
	spec string
	loc  *time.Location
	job  Job

	cron *cron.Cron
	id   cron.EntryID
}

// New validates spec (standard 5-field cron syntax) and prepares a scheduler
// that evaluates it in loc.
func New(spec string, loc *time.Location, job Job) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{spec: spec, loc: loc, job: job}, nil
}

// Start begins firing the job. Overlapping runs are skipped and panics are
// recovered by the cron chain.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := cronLogger{}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	id, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	s.id = id
	s.cron.Start()

	slog.Info(config.MsgSchedulerStart,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeySchedule, s.spec,
		config.LogKeyTimezone, s.loc.String(),
		config.LogKeyNextRun, s.Next(),
	)
	return nil
}

// Next reports the next activation, or the zero time when not started.
func (s *Scheduler) Next() time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.id).Next
}

// Stop halts the scheduler and waits for a running job until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop()

	select {
	case <-done.Done():
		slog.Info(config.MsgSchedulerStop, config.LogKeyComponent, config.CompScheduler)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", config.ErrSchedulerStop, ctx.Err())
	}
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ShutdownTimeout)
	defer cancel()
	return s.Stop(stopCtx)
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	slog.Info(config.MsgJobStart, config.LogKeyComponent, config.CompScheduler)

	s.job(ctx)

	slog.Info(config.MsgJobDone,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyDuration, time.Since(started).Milliseconds(),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, append([]interface{}{config.LogKeyComponent, config.CompScheduler}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if err == nil {
		err = errors.New(msg)
	}
	args := append([]interface{}{config.LogKeyComponent, config.CompScheduler, config.LogKeyError, err}, keysAndValues...)
	slog.Error(msg, args...)
}
