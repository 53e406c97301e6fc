// Package notification delivers domain events to sinks off the request path.
package notification

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// Observer is told about queue and delivery outcomes, e.g. for metrics
type Observer interface {
	EventQueued(eventType string)
	EventDropped(eventType string)
	EventDelivered(eventType string, duration time.Duration)
	DeliveryFailed(eventType string)
}

// DispatcherConfig tunes the queue and delivery
type DispatcherConfig struct {
	BufferSize      int
	DeliveryTimeout time.Duration
	RatePerSecond   float64
	Burst           int
}

// Dispatcher is the notification.Emitter used in production. Emit enqueues
// without blocking; a single goroutine drains the queue into the sink.
type Dispatcher struct {
	sink     notification.Sink
	queue    chan notification.Event
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   common.ContainerLogger
	observer Observer

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
	mu        sync.RWMutex
	stopped   bool
}

// NewDispatcher creates a dispatcher. Run must be started for events to flow.
func NewDispatcher(sink notification.Sink, cfg DispatcherConfig, logger common.ContainerLogger, observer Observer) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 3 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}

	return &Dispatcher{
		sink:     sink,
		queue:    make(chan notification.Event, cfg.BufferSize),
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		timeout:  cfg.DeliveryTimeout,
		logger:   logger,
		observer: observer,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Emit implements notification.Emitter. A full queue drops the event.
func (d *Dispatcher) Emit(events ...notification.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, event := range events {
		if d.stopped {
			d.drop(event, "dispatcher closed")
			continue
		}
		select {
		case d.queue <- event:
			if d.observer != nil {
				d.observer.EventQueued(string(event.Type))
			}
		default:
			d.drop(event, "queue full")
		}
	}
}

func (d *Dispatcher) drop(event notification.Event, why string) {
	d.logger.Log(common.LevelWarn, "Notification dropped", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"reason":     why,
	})
	if d.observer != nil {
		d.observer.EventDropped(string(event.Type))
	}
}

// Run drains the queue until ctx is cancelled or Close is called. Events
// still queued on Close are delivered before Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-d.queue:
			d.deliver(ctx, event)
		case <-d.closed:
			for {
				select {
				case event := <-d.queue:
					d.deliver(ctx, event)
				default:
					return nil
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event notification.Event) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.drop(event, "shutting down")
		return
	}

	deliverCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	started := time.Now()
	if err := d.sink.Deliver(deliverCtx, event); err != nil {
		fault := shared.NewDeliveryFaultError(string(event.Type), err)
		d.logger.Log(common.LevelError, "Notification delivery failed", map[string]interface{}{
			"event_id": event.ID,
			"error":    fault.Error(),
		})
		if d.observer != nil {
			d.observer.DeliveryFailed(string(event.Type))
		}
		return
	}
	if d.observer != nil {
		d.observer.EventDelivered(string(event.Type), time.Since(started))
	}
}

// Close stops accepting events and waits for Run to flush the queue
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.closed)
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports how many events wait in the queue
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}
