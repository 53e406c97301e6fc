package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/fame0528/DarkFrame-sub009/internal/adapters/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

var occurred = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
	block  chan struct{}
}

func (s *recordingSink) Deliver(ctx context.Context, event notification.Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type countingObserver struct {
	mu                                 sync.Mutex
	queued, dropped, delivered, failed int
}

func (o *countingObserver) EventQueued(string)  { o.mu.Lock(); o.queued++; o.mu.Unlock() }
func (o *countingObserver) EventDropped(string) { o.mu.Lock(); o.dropped++; o.mu.Unlock() }
func (o *countingObserver) EventDelivered(string, time.Duration) {
	o.mu.Lock()
	o.delivered++
	o.mu.Unlock()
}
func (o *countingObserver) DeliveryFailed(string) { o.mu.Lock(); o.failed++; o.mu.Unlock() }

func (o *countingObserver) snapshot() (int, int, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queued, o.dropped, o.delivered, o.failed
}

func event(t notification.EventType) notification.Event {
	return notification.NewActorEvent(t, notification.PriorityNormal, occurred, nil, shared.MustNewActorID("alpha"))
}

func TestDispatcher_DeliversQueuedEvents(t *testing.T) {
	sink := &recordingSink{}
	obs := &countingObserver{}
	d := adapter.NewDispatcher(sink, adapter.DispatcherConfig{BufferSize: 8}, nil, obs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Emit(event(notification.EventWeaponReady), event(notification.EventWeaponLaunched))

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
	queued, dropped, delivered, _ := obs.snapshot()
	assert.Equal(t, 2, queued)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 2, delivered)
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	sink := &recordingSink{}
	obs := &countingObserver{}
	d := adapter.NewDispatcher(sink, adapter.DispatcherConfig{BufferSize: 2}, nil, obs)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			d.Emit(event(notification.EventSabotage))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}

	queued, dropped, _, _ := obs.snapshot()
	assert.Equal(t, 2, queued)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, 2, d.Pending())
}

func TestDispatcher_SinkErrorIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	obs := &countingObserver{}
	d := adapter.NewDispatcher(sink, adapter.DispatcherConfig{BufferSize: 4}, nil, obs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Emit(event(notification.EventRepairCompleted))
	require.Eventually(t, func() bool {
		_, _, _, failed := obs.snapshot()
		return failed == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_DeliveryTimeout(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	obs := &countingObserver{}
	d := adapter.NewDispatcher(sink, adapter.DispatcherConfig{BufferSize: 4, DeliveryTimeout: 20 * time.Millisecond}, nil, obs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Emit(event(notification.EventWeaponImpacted))
	require.Eventually(t, func() bool {
		_, _, _, failed := obs.snapshot()
		return failed == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_CloseFlushesQueue(t *testing.T) {
	sink := &recordingSink{}
	d := adapter.NewDispatcher(sink, adapter.DispatcherConfig{BufferSize: 8}, nil, nil)

	d.Emit(event(notification.EventMissionStarted), event(notification.EventMissionResolved))
	go d.Run(context.Background())

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(closeCtx))
	assert.Equal(t, 2, sink.count())

	d.Emit(event(notification.EventMissionStarted))
	assert.Equal(t, 0, d.Pending(), "events after Close are dropped")
}

func TestFanoutSink_DeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("offline")}
	fanout := adapter.NewFanoutSink(failing, ok)

	err := fanout.Deliver(context.Background(), event(notification.EventHostilesRevealed))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Equal(t, 1, ok.count())
	assert.Equal(t, 1, failing.count())
}
