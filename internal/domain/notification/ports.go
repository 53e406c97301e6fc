package notification

import (
	"context"
	"time"
)

// Sink delivers one event somewhere. Errors are reported to the dispatcher,
// which logs and drops them.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// Emitter accepts events after a transition has committed. Emit never blocks
// on delivery and never reports failure to the caller.
type Emitter interface {
	Emit(events ...Event)
}

// Store keeps delivered notifications for later reads and retention sweeps
type Store interface {
	Save(ctx context.Context, event Event) error
	ListForRecipient(ctx context.Context, recipient string, limit int) ([]Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Batch collects events while a command runs so they can be emitted after commit
type Batch struct {
	events []Event
}

func (b *Batch) Add(events ...Event) {
	b.events = append(b.events, events...)
}

func (b *Batch) Events() []Event {
	return b.events
}

// Flush hands the collected events to the emitter and clears the batch
func (b *Batch) Flush(emitter Emitter) {
	if emitter == nil || len(b.events) == 0 {
		return
	}
	emitter.Emit(b.events...)
	b.events = nil
}
