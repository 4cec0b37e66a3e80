// Package jobs runs background maintenance work on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron with named job registration. Overlapping
// runs of the same job are skipped and panics inside jobs are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler creates an idle scheduler. Call Start after registering jobs.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// AddJob registers a named job under a cron expression ("@hourly",
// "15 * * * *", "@every 1h"). Names are unique.
func (s *Scheduler) AddJob(name string, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(cronExpr, func() {
		s.logger.Info("job started", zap.String("job", name))
		job()
		s.logger.Info("job finished", zap.String("job", name))
	})
	if err != nil {
		return fmt.Errorf("register job %q: %w", name, err)
	}

	s.entries[name] = id
	s.logger.Info("job scheduled",
		zap.String("job", name),
		zap.String("cron", cronExpr))
	return nil
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop halts scheduling. The returned context is done once any in-flight
// jobs have completed.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}
