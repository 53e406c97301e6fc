package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
)

// globalRecipient is the recipient row written for GLOBAL-scope events
const globalRecipient = "*"

// GormNotificationStore implements notification.Store
type GormNotificationStore struct {
	db *gorm.DB
}

// NewGormNotificationStore creates a new GORM notification store
func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

// Save stores the event and its recipient index rows. Saving the same event
// twice is a no-op.
func (s *GormNotificationStore) Save(ctx context.Context, event notification.Event) error {
	recipients, err := json.Marshal(event.Recipients)
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	model := &NotificationModel{
		ID:         event.ID,
		EventType:  string(event.Type),
		Priority:   string(event.Priority),
		Scope:      string(event.Scope),
		Recipients: datatypes.JSON(recipients),
		Payload:    datatypes.JSON(payload),
		CreatedAt:  event.OccurredAt,
	}

	rows := make([]NotificationRecipientModel, 0, len(event.Recipients)+1)
	if event.Scope == notification.ScopeGlobal {
		rows = append(rows, NotificationRecipientModel{NotificationID: event.ID, Recipient: globalRecipient, CreatedAt: event.OccurredAt})
	} else {
		for _, r := range event.Recipients {
			rows = append(rows, NotificationRecipientModel{NotificationID: event.ID, Recipient: r, CreatedAt: event.OccurredAt})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
			return fmt.Errorf("failed to store notification: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to index notification recipients: %w", err)
		}
		return nil
	})
}

// ListForRecipient returns the newest events addressed to recipient, global ones included
func (s *GormNotificationStore) ListForRecipient(ctx context.Context, recipient string, limit int) ([]notification.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []NotificationModel
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&NotificationRecipientModel{}).
			Select("notification_id").
			Where("recipient IN ?", []string{recipient, globalRecipient})).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	events := make([]notification.Event, 0, len(models))
	for _, m := range models {
		event := notification.Event{
			ID:         m.ID,
			Type:       notification.EventType(m.EventType),
			Priority:   notification.Priority(m.Priority),
			Scope:      notification.Scope(m.Scope),
			OccurredAt: m.CreatedAt,
		}
		if len(m.Recipients) > 0 {
			if err := json.Unmarshal(m.Recipients, &event.Recipients); err != nil {
				return nil, fmt.Errorf("failed to decode recipients of %s: %w", m.ID, err)
			}
		}
		if len(m.Payload) > 0 {
			if err := json.Unmarshal(m.Payload, &event.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode payload of %s: %w", m.ID, err)
			}
		}
		events = append(events, event)
	}
	return events, nil
}

// DeleteOlderThan removes notifications created before cutoff and returns how many went
func (s *GormNotificationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("created_at < ?", cutoff).Delete(&NotificationRecipientModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete notification recipients: %w", err)
		}
		result := tx.Where("created_at < ?", cutoff).Delete(&NotificationModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete notifications: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
