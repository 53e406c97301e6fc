package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetricsCollector implements the dispatcher's Observer
type NotificationMetricsCollector struct {
	eventsTotal      *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
	pending          prometheus.GaugeFunc
}

// NewNotificationMetricsCollector creates a collector. pending reports the
// dispatcher queue depth at scrape time and may be nil.
func NewNotificationMetricsCollector(pending func() int) *NotificationMetricsCollector {
	if pending == nil {
		pending = func() int { return 0 }
	}
	return &NotificationMetricsCollector{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_total",
				Help:      "Notification events by type and stage (queued, dropped, delivered, failed)",
			},
			[]string{"event_type", "stage"},
		),

		deliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_delivery_seconds",
				Help:      "Sink delivery duration distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),

		pending: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_pending",
				Help:      "Events waiting in the dispatcher queue",
			},
			func() float64 { return float64(pending()) },
		),
	}
}

// Register registers all notification metrics with the Prometheus registry
func (c *NotificationMetricsCollector) Register() error {
	return register(c.eventsTotal, c.deliveryDuration, c.pending)
}

func (c *NotificationMetricsCollector) EventQueued(eventType string) {
	c.eventsTotal.WithLabelValues(eventType, "queued").Inc()
}

func (c *NotificationMetricsCollector) EventDropped(eventType string) {
	c.eventsTotal.WithLabelValues(eventType, "dropped").Inc()
}

func (c *NotificationMetricsCollector) EventDelivered(eventType string, duration time.Duration) {
	c.eventsTotal.WithLabelValues(eventType, "delivered").Inc()
	c.deliveryDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

func (c *NotificationMetricsCollector) DeliveryFailed(eventType string) {
	c.eventsTotal.WithLabelValues(eventType, "failed").Inc()
}
