package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
)

// LogSink writes each event to the structured logger
type LogSink struct {
	logger common.ContainerLogger
}

func NewLogSink(logger common.ContainerLogger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver implements notification.Sink
func (s *LogSink) Deliver(_ context.Context, event notification.Event) error {
	level := common.LevelInfo
	if event.Priority == notification.PriorityCritical {
		level = common.LevelWarn
	}
	s.logger.Log(level, fmt.Sprintf("Notification %s", event.Type), map[string]interface{}{
		"event_id":   event.ID,
		"priority":   string(event.Priority),
		"scope":      string(event.Scope),
		"recipients": event.Recipients,
	})
	return nil
}

// StoreSink persists events for the notifications list and retention sweep
type StoreSink struct {
	store notification.Store
}

func NewStoreSink(store notification.Store) *StoreSink {
	return &StoreSink{store: store}
}

// Deliver implements notification.Sink
func (s *StoreSink) Deliver(ctx context.Context, event notification.Event) error {
	if err := s.store.Save(ctx, event); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// FanoutSink hands every event to each sink and joins their failures. One
// failing sink does not stop delivery to the others.
type FanoutSink struct {
	sinks []notification.Sink
}

func NewFanoutSink(sinks ...notification.Sink) *FanoutSink {
	return &FanoutSink{sinks: sinks}
}

// Deliver implements notification.Sink
func (f *FanoutSink) Deliver(ctx context.Context, event notification.Event) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
