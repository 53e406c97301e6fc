package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// CommandMetricsCollector counts mediator requests. Domain rejections are
// also broken down by reason code so a spike in, say, OUT_OF_RANGE launches
// is visible without log digging.
type CommandMetricsCollector struct {
	duration   *prometheus.HistogramVec
	total      *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "command_duration_seconds",
			Help:      "Mediator request latency by request and outcome",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command", "status"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_total",
			Help:      "Mediator requests by request and outcome (success, error kind, or error)",
		}, []string{"command", "status"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "command_rejections_total",
			Help:      "Domain rejections by request and reason code",
		}, []string{"command", "reason"}),
	}
}

func (c *CommandMetricsCollector) Register() error {
	return register(c.duration, c.total, c.rejections)
}

// RecordCommandExecution observes one request. duration is in seconds.
func (c *CommandMetricsCollector) RecordCommandExecution(command string, duration float64, err error) {
	status := "success"
	var domainErr *shared.DomainError
	switch {
	case err == nil:
	case errors.As(err, &domainErr):
		status = string(domainErr.Kind)
		c.rejections.WithLabelValues(command, string(domainErr.Reason)).Inc()
	default:
		status = "error"
	}
	c.duration.WithLabelValues(command, status).Observe(duration)
	c.total.WithLabelValues(command, status).Inc()
}
