// Package scheduler wires up the cron job that periodically runs the relay.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunFunc performs one relay pass.
type RunFunc func(ctx context.Context)

// Scheduler wraps robfig/cron. Runs never overlap: a tick that fires while
// the previous pass is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	spec string
	run  RunFunc
	log  *logrus.Entry

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler for a cron spec such as "@every 30m".
func New(spec string, run RunFunc, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		run:  run,
		log:  log.WithField("component", "scheduler"),
	}
}

// Start registers the job, starts cron and fires one pass right away so the
// channel is fed without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Trigger(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Infof("⏰ Cron started, spec: %s", s.spec)

	go s.Trigger(ctx)
	return nil
}

// Trigger runs one pass unless one is already in flight. It reports whether
// the pass ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("⚠️ Previous run still in progress, skipping tick")
		return false
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	s.run(ctx)
	return true
}

// Stop halts cron and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.log.Info("⏹️ Cron stopped")
}
