package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollScheduler_FetchesImmediately(t *testing.T) {
	var calls atomic.Int32
	s := NewPollScheduler(time.Hour, func(ctx context.Context) { calls.Add(1) }, nil)

	assert.Equal(t, PhaseIdle, s.Phase())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, PhaseRunning, s.Phase())
}

func TestPollScheduler_StartTwice(t *testing.T) {
	s := NewPollScheduler(time.Hour, func(ctx context.Context) {}, nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerStarted)
}

func TestPollScheduler_PeriodicAndPaused(t *testing.T) {
	var calls atomic.Int32
	s := NewPollScheduler(10*time.Millisecond, func(ctx context.Context) { calls.Add(1) }, nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Pause()
	assert.Equal(t, PhasePaused, s.Phase())

	// Let an in-progress tick finish, then ticks must be skipped.
	time.Sleep(30 * time.Millisecond)
	paused := calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, paused, calls.Load(), "paused scheduler must skip ticks")

	s.Resume()
	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Eventually(t, func() bool { return calls.Load() > paused }, time.Second, 5*time.Millisecond)
}

func TestPollScheduler_TriggerWhilePaused(t *testing.T) {
	var calls atomic.Int32
	s := NewPollScheduler(time.Hour, func(ctx context.Context) { calls.Add(1) }, nil)

	assert.False(t, s.Trigger(), "idle scheduler has no context to run in")

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.Pause()
	assert.True(t, s.Trigger())
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, PhasePaused, s.Phase(), "trigger does not resume")

	require.NoError(t, s.Stop(context.Background()))
}

func TestPollScheduler_StopIsFinal(t *testing.T) {
	var calls atomic.Int32
	s := NewPollScheduler(5*time.Millisecond, func(ctx context.Context) { calls.Add(1) }, nil)
	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	stopped := calls.Load()
	assert.False(t, s.Trigger())
	s.Resume()
	assert.Equal(t, PhaseStopped, s.Phase())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestPollScheduler_StopCancelsInFlightFetch(t *testing.T) {
	cancelled := make(chan struct{})
	s := NewPollScheduler(time.Hour, func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}, nil)
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case <-cancelled:
	default:
		t.Fatal("in-flight fetch did not observe cancellation")
	}
}
