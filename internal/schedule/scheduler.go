// Package schedule runs periodic maintenance work on cron expressions.
package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is a named unit of periodic maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// CronScheduler dispatches jobs on standard five-field cron specs. A tick
// that fires while the previous run of the same job is still in flight is
// dropped, not queued.
type CronScheduler struct {
	cron *cron.Cron
	base atomic.Pointer[contextHolder]
}

type contextHolder struct{ ctx context.Context }

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{cron: cron.New(cron.WithParser(parser))}
}

func (s *CronScheduler) AddJob(job Job, spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runner(job, spec)); err != nil {
		return fmt.Errorf("schedule %s with spec %q: %w", job.Name(), spec, err)
	}
	logutil.GetLogger(context.Background()).Info("job scheduled",
		zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

// Start begins dispatching. ctx becomes the base context passed to every
// job run, so cancelling it aborts in-flight work.
func (s *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.base.Store(&contextHolder{ctx: ctx})
	s.cron.Start()
}

// Stop halts dispatching and waits for running jobs to return.
func (s *CronScheduler) Stop() {
	done := s.cron.Stop()
	<-done.Done()
}

func (s *CronScheduler) runner(job Job, spec string) func() {
	var busy atomic.Bool
	return func() {
		if !busy.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).Warn("job still running, tick dropped",
				zap.String("job", job.Name()))
			return
		}
		defer busy.Store(false)

		ctx := context.Background()
		if holder := s.base.Load(); holder != nil {
			ctx = holder.ctx
		}
		logger := logutil.GetLogger(ctx).With(
			zap.String("job", job.Name()), zap.String("spec", spec))
		start := time.Now()
		logger.Info("job started")
		if err := job.Run(ctx); err != nil {
			logger.Error("job failed", zap.Error(err), zap.Duration("cost", time.Since(start)))
			return
		}
		logger.Info("job finished", zap.Duration("cost", time.Since(start)))
	}
}
