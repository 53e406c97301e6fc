package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/application/scheduler"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

func newScheduler() *scheduler.Scheduler {
	return scheduler.New(scheduler.Config{ShutdownTimeout: time.Second}, nil)
}

func TestRegister_Validation(t *testing.T) {
	s := newScheduler()
	noop := func(context.Context, time.Time) error { return nil }

	assert.Equal(t, shared.KindValidation, shared.KindOf(s.Register("", time.Second, noop)))
	assert.Equal(t, shared.KindValidation, shared.KindOf(s.Register("impacts", 0, noop)))
	require.NoError(t, s.Register("impacts", time.Second, noop))
	assert.Equal(t, shared.KindValidation, shared.KindOf(s.Register("impacts", time.Second, noop)))
}

func TestFailingJob_DoesNotAffectHealthyJob(t *testing.T) {
	s := newScheduler()
	ctx := context.Background()

	require.NoError(t, s.Register("broken", time.Minute, func(context.Context, time.Time) error {
		return errors.New("database unavailable")
	}))
	require.NoError(t, s.Register("healthy", time.Minute, func(context.Context, time.Time) error {
		return nil
	}))

	for i := 0; i < 5; i++ {
		err := s.RunNow(ctx, "broken")
		require.Error(t, err)
		assert.Equal(t, shared.KindJobFault, shared.KindOf(err))
		require.NoError(t, s.RunNow(ctx, "healthy"))
	}

	health := s.Health()
	require.Len(t, health, 2)
	assert.Equal(t, "broken", health[0].Name)
	assert.Equal(t, int64(5), health[0].ErrorCount)
	assert.Equal(t, int64(0), health[0].ExecutionCount)
	assert.Contains(t, health[0].LastError, "database unavailable")
	assert.False(t, health[0].Healthy())

	assert.Equal(t, "healthy", health[1].Name)
	assert.Equal(t, int64(5), health[1].ExecutionCount)
	assert.Equal(t, int64(0), health[1].ErrorCount)
	assert.True(t, health[1].Healthy())
}

func TestPanickingJob_IsRecovered(t *testing.T) {
	s := newScheduler()
	require.NoError(t, s.Register("panics", time.Minute, func(context.Context, time.Time) error {
		panic("nil map")
	}))

	err := s.RunNow(context.Background(), "panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: nil map")

	h, err := s.JobHealth("panics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.ErrorCount)
	assert.False(t, h.IsRunning)
}

func TestSlowJob_SkipsOverlappingTick(t *testing.T) {
	s := newScheduler()
	release := make(chan struct{})
	entered := make(chan struct{})

	require.NoError(t, s.Register("slow", time.Minute, func(ctx context.Context, _ time.Time) error {
		close(entered)
		<-release
		return nil
	}))

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.RunNow(context.Background(), "slow") }()
	<-entered

	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, shared.ErrJobRunning)

	close(release)
	require.NoError(t, <-firstDone)

	h, err := s.JobHealth("slow")
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.SkippedCount)
	assert.Equal(t, int64(1), h.ExecutionCount)
}

func TestJobTimeout_CancelsContext(t *testing.T) {
	s := scheduler.New(scheduler.Config{JobTimeout: 20 * time.Millisecond, ShutdownTimeout: time.Second}, nil)
	require.NoError(t, s.Register("stuck", time.Minute, func(ctx context.Context, _ time.Time) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	err := s.RunNow(context.Background(), "stuck")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartAll_TicksAndStopAllIsIdempotent(t *testing.T) {
	s := newScheduler()
	var runs atomic.Int64
	require.NoError(t, s.Register("fast", 10*time.Millisecond, func(context.Context, time.Time) error {
		runs.Add(1)
		return nil
	}))

	s.StartAll(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.StopAll())
	require.NoError(t, s.StopAll())

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, runs.Load(), "no ticks after StopAll")
}

func TestRestartOne_ResetsStatistics(t *testing.T) {
	s := newScheduler()
	ctx := context.Background()
	require.NoError(t, s.Register("impacts", time.Minute, func(context.Context, time.Time) error {
		return errors.New("boom")
	}))

	require.Error(t, s.RunNow(ctx, "impacts"))
	require.Error(t, s.RunNow(ctx, "impacts"))

	require.NoError(t, s.RestartOne("impacts"))
	h, err := s.JobHealth("impacts")
	require.NoError(t, err)
	assert.Equal(t, int64(0), h.ErrorCount)
	assert.Nil(t, h.LastRun)
	assert.True(t, h.Healthy())

	assert.True(t, shared.IsNotFound(s.RestartOne("missing")))
	assert.True(t, shared.IsNotFound(s.RunNow(ctx, "missing")))
}

func TestRestartOne_WhileRunningKeepsTicking(t *testing.T) {
	s := newScheduler()
	var runs atomic.Int64
	require.NoError(t, s.Register("fast", 10*time.Millisecond, func(context.Context, time.Time) error {
		runs.Add(1)
		return nil
	}))

	s.StartAll(context.Background())
	defer s.StopAll()

	require.NoError(t, s.RestartOne("fast"))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
