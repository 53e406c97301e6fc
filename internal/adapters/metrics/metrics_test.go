package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

type launchProbe struct{}

func TestPrometheusMiddleware_LabelsByErrorKind(t *testing.T) {
	collector := NewCommandMetricsCollector()
	mw := PrometheusMiddleware(collector)

	ok := func(ctx context.Context, r common.Request) (common.Response, error) { return "done", nil }
	busy := func(ctx context.Context, r common.Request) (common.Response, error) {
		return nil, shared.ErrOperativeBusy
	}
	broken := func(ctx context.Context, r common.Request) (common.Response, error) {
		return nil, errors.New("db down")
	}

	resp, err := mw(context.Background(), &launchProbe{}, ok)
	require.NoError(t, err)
	assert.Equal(t, "done", resp)
	_, _ = mw(context.Background(), &launchProbe{}, busy)
	_, _ = mw(context.Background(), &launchProbe{}, busy)
	_, _ = mw(context.Background(), &launchProbe{}, broken)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.total.WithLabelValues("launchProbe", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.total.WithLabelValues("launchProbe", "PRECONDITION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.total.WithLabelValues("launchProbe", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.rejections.WithLabelValues("launchProbe", "OPERATIVE_BUSY")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)
	resp, err := mw(context.Background(), &launchProbe{}, func(ctx context.Context, r common.Request) (common.Response, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

type fixedHealth []daemon.JobHealth

func (f fixedHealth) Health() []daemon.JobHealth { return f }

func TestSchedulerMetricsCollector(t *testing.T) {
	lastRun := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewSchedulerMetricsCollector(fixedHealth{
		{Name: "weapon_impacts", IsRunning: true, LastRun: &lastRun},
		{Name: "mission_completion"},
	})

	c.JobFinished("weapon_impacts", 20*time.Millisecond, nil)
	c.JobFinished("weapon_impacts", 30*time.Millisecond, errors.New("boom"))
	c.JobSkipped("weapon_impacts")
	c.updateHealth()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobRunsTotal.WithLabelValues("weapon_impacts", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobRunsTotal.WithLabelValues("weapon_impacts", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobSkippedTotal.WithLabelValues("weapon_impacts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobRunning.WithLabelValues("weapon_impacts")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.jobRunning.WithLabelValues("mission_completion")))
	assert.Equal(t, float64(lastRun.Unix()), testutil.ToFloat64(c.jobLastRun.WithLabelValues("weapon_impacts")))
}

func TestNotificationMetricsCollector(t *testing.T) {
	depth := 3
	c := NewNotificationMetricsCollector(func() int { return depth })

	c.EventQueued("SABOTAGE")
	c.EventQueued("SABOTAGE")
	c.EventDelivered("SABOTAGE", time.Millisecond)
	c.DeliveryFailed("SABOTAGE")
	c.EventDropped("WEAPON_READY")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("SABOTAGE", "queued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("SABOTAGE", "delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("SABOTAGE", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("WEAPON_READY", "dropped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.pending))
}

func TestRegister_NoRegistryIsNoop(t *testing.T) {
	Registry = nil
	assert.NoError(t, NewCommandMetricsCollector().Register())
	assert.False(t, IsEnabled())
}

func TestRegister_TwiceIsTolerated(t *testing.T) {
	InitRegistry()
	defer func() { Registry = nil }()

	c := NewCommandMetricsCollector()
	require.NoError(t, c.Register())
	require.NoError(t, c.Register())
	assert.True(t, IsEnabled())
}
