package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
)

// HealthSource exposes job health snapshots, implemented by the scheduler
type HealthSource = daemon.HealthSource

// SchedulerMetricsCollector records job outcomes pushed by the scheduler and
// polls job health for gauges. It implements scheduler.Observer.
type SchedulerMetricsCollector struct {
	source HealthSource

	jobRunsTotal    *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	jobSkippedTotal *prometheus.CounterVec
	jobRunning      *prometheus.GaugeVec
	jobLastRun      *prometheus.GaugeVec

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSchedulerMetricsCollector creates a collector. source may be nil to skip the gauges.
func NewSchedulerMetricsCollector(source HealthSource) *SchedulerMetricsCollector {
	return &SchedulerMetricsCollector{
		source: source,

		jobRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_runs_total",
				Help:      "Total number of job runs by job and status",
			},
			[]string{"job", "status"},
		),

		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_duration_seconds",
				Help:      "Job run duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"job"},
		),

		jobSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_skipped_total",
				Help:      "Ticks skipped because the previous run was still in flight",
			},
			[]string{"job"},
		),

		jobRunning: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_running",
				Help:      "1 while a job run is in flight",
			},
			[]string{"job"},
		),

		jobLastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_last_run_timestamp_seconds",
				Help:      "Unix time of the last finished run",
			},
			[]string{"job"},
		),
	}
}

// Register registers all scheduler metrics with the Prometheus registry
func (c *SchedulerMetricsCollector) Register() error {
	return register(c.jobRunsTotal, c.jobDuration, c.jobSkippedTotal, c.jobRunning, c.jobLastRun)
}

// JobFinished implements scheduler.Observer
func (c *SchedulerMetricsCollector) JobFinished(name string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.jobRunsTotal.WithLabelValues(name, status).Inc()
	c.jobDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// JobSkipped implements scheduler.Observer
func (c *SchedulerMetricsCollector) JobSkipped(name string) {
	c.jobSkippedTotal.WithLabelValues(name).Inc()
}

// Start begins polling job health
func (c *SchedulerMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	if c.source == nil {
		return
	}
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collectHealth(interval)
}

// Stop gracefully stops the polling goroutine
func (c *SchedulerMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SchedulerMetricsCollector) collectHealth(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateHealth()
		}
	}
}

func (c *SchedulerMetricsCollector) updateHealth() {
	for _, h := range c.source.Health() {
		running := 0.0
		if h.IsRunning {
			running = 1
		}
		c.jobRunning.WithLabelValues(h.Name).Set(running)
		if h.LastRun != nil {
			c.jobLastRun.WithLabelValues(h.Name).Set(float64(h.LastRun.Unix()))
		}
	}
}
