package helpers

import (
	"context"
	"sync"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
)

// RecordingSink captures delivered events for assertions
type RecordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Deliver implements notification.Sink
func (s *RecordingSink) Deliver(ctx context.Context, event notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything delivered so far
func (s *RecordingSink) Events() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}

// OfType filters delivered events by type
func (s *RecordingSink) OfType(eventType notification.EventType) []notification.Event {
	var out []notification.Event
	for _, e := range s.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets every recorded event
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
