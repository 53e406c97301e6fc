package daemon_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewJobDescriptor_Validation(t *testing.T) {
	_, err := daemon.NewJobDescriptor("", time.Second, start)
	assert.Error(t, err)

	_, err = daemon.NewJobDescriptor("impacts", 0, start)
	assert.Error(t, err)

	job, err := daemon.NewJobDescriptor("impacts", 30*time.Second, start)
	require.NoError(t, err)
	health := job.Health()
	assert.Nil(t, health.LastRun)
	assert.Equal(t, start.Add(30*time.Second), health.NextRun)
	assert.True(t, health.Healthy())
}

func TestTryBegin_GuardsReentry(t *testing.T) {
	job, err := daemon.NewJobDescriptor("impacts", time.Second, start)
	require.NoError(t, err)

	require.True(t, job.TryBegin(start))
	assert.False(t, job.TryBegin(start.Add(time.Second)))
	assert.True(t, job.Health().IsRunning)
	assert.Equal(t, int64(1), job.Health().SkippedCount)

	job.Finish(time.Millisecond, nil)
	assert.True(t, job.TryBegin(start.Add(2*time.Second)))
}

func TestFinish_CountsAndMovingAverage(t *testing.T) {
	job, err := daemon.NewJobDescriptor("impacts", time.Second, start)
	require.NoError(t, err)

	require.True(t, job.TryBegin(start))
	job.Finish(100*time.Millisecond, nil)
	assert.Equal(t, 100*time.Millisecond, job.Health().AverageExecutionTime, "first sample seeds the average")

	require.True(t, job.TryBegin(start))
	job.Finish(200*time.Millisecond, errors.New("boom"))

	health := job.Health()
	assert.InDelta(t, float64(110*time.Millisecond), float64(health.AverageExecutionTime), float64(time.Microsecond))
	assert.Equal(t, int64(1), health.ExecutionCount)
	assert.Equal(t, int64(1), health.ErrorCount)
	assert.Equal(t, "boom", health.LastError)
	assert.False(t, health.Healthy())
	assert.False(t, health.IsRunning)
}

func TestReset_ClearsStatistics(t *testing.T) {
	job, err := daemon.NewJobDescriptor("impacts", time.Minute, start)
	require.NoError(t, err)
	require.True(t, job.TryBegin(start))
	job.Finish(time.Second, errors.New("boom"))

	job.Reset(start.Add(time.Hour))

	health := job.Health()
	assert.Zero(t, health.ErrorCount)
	assert.Zero(t, health.AverageExecutionTime)
	assert.Nil(t, health.LastRun)
	assert.Equal(t, start.Add(time.Hour+time.Minute), health.NextRun)
	assert.Empty(t, health.LastError)
}
