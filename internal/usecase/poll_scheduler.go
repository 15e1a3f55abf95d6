package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

// SchedulerPhase is the lifecycle state of a PollScheduler.
type SchedulerPhase int32

const (
	PhaseIdle SchedulerPhase = iota // not started yet
	PhaseRunning
	PhasePaused
	PhaseStopped
)

func (p SchedulerPhase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return "idle"
	}
}

func (p SchedulerPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

var ErrSchedulerStarted = errors.New("poll scheduler already started")

// PollScheduler runs fetch immediately on Start and then once per interval.
// Ticks that fall while paused are skipped, not deferred.
type PollScheduler struct {
	interval time.Duration
	fetch    func(ctx context.Context)
	logger   *zap.Logger

	phase atomic.Int32

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

func NewPollScheduler(interval time.Duration, fetch func(ctx context.Context), logger *zap.Logger) *PollScheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PollScheduler{
		interval: interval,
		fetch:    fetch,
		logger:   logger,
	}
}

func (s *PollScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.phase.Store(int32(PhaseRunning))

	s.wg.Add(1)
	go s.run()

	s.logger.Info("Poll scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for it, and for any triggered fetch, to return.
// No fetch is started after Stop.
func (s *PollScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.phase.Store(int32(PhaseStopped))
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Poll scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PollScheduler) Phase() SchedulerPhase {
	return SchedulerPhase(s.phase.Load())
}

// Pause moves Running to Paused. Other phases are left alone.
func (s *PollScheduler) Pause() {
	if s.phase.CompareAndSwap(int32(PhaseRunning), int32(PhasePaused)) {
		s.logger.Info("Poll scheduler paused")
	}
}

// Resume moves Paused to Running. Other phases are left alone.
func (s *PollScheduler) Resume() {
	if s.phase.CompareAndSwap(int32(PhasePaused), int32(PhaseRunning)) {
		s.logger.Info("Poll scheduler resumed")
	}
}

// Trigger runs fetch once in the background regardless of Running or Paused.
// It returns false when the scheduler is idle or stopped.
func (s *PollScheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Phase() {
	case PhaseIdle, PhaseStopped:
		return false
	}

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.fetch(ctx)
	}()
	return true
}

func (s *PollScheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.fetch(s.ctx)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if s.Phase() != PhaseRunning {
				s.logger.Debug("Skipping scheduled fetch", zap.Stringer("phase", s.Phase()))
				continue
			}
			s.fetch(s.ctx)
		}
	}
}
