package tasks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs passes with a fixed delay: the interval is measured from the
// end of one pass to the start of the next.
type Scheduler struct {
	pass     PassRunner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  atomic.Bool

	mu       sync.Mutex
	lastPass *PassSummary
}

func NewScheduler(pass PassRunner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pass:     pass,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for s.ctx.Err() == nil {
			s.runPass()

			timer := time.NewTimer(s.interval)
			select {
			case <-s.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()

	slog.Info("Scheduler started", "interval", s.interval)
}

// Stop interrupts the sleep between passes and waits for a running pass to
// finish. It does not cancel the pass.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) LastPass() (PassSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastPass == nil {
		return PassSummary{}, false
	}
	return *s.lastPass, true
}

func (s *Scheduler) runPass() {
	s.running.Store(true)
	defer s.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pass panicked", "panic", r)
		}
	}()

	summary := s.pass.Run(context.WithoutCancel(s.ctx))

	s.mu.Lock()
	s.lastPass = &summary
	s.mu.Unlock()
}
