package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// PurgeNotificationsCommand deletes stored notifications older than the
// retention window. A zero Now means the handler's clock.
type PurgeNotificationsCommand struct {
	Now time.Time
}

// PurgeNotificationsResponse reports how many rows were removed
type PurgeNotificationsResponse struct {
	Deleted int64
	Cutoff  time.Time
}

// PurgeNotificationsHandler is the retention sweep
type PurgeNotificationsHandler struct {
	store     notification.Store
	retention time.Duration
	clock     shared.Clock
}

func NewPurgeNotificationsHandler(store notification.Store, retention time.Duration, clock shared.Clock) *PurgeNotificationsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PurgeNotificationsHandler{store: store, retention: retention, clock: clock}
}

// Handle executes the retention sweep
func (h *PurgeNotificationsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PurgeNotificationsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if h.retention <= 0 {
		return &PurgeNotificationsResponse{}, nil
	}

	now := cmd.Now
	if now.IsZero() {
		now = h.clock.Now()
	}
	cutoff := now.Add(-h.retention)

	deleted, err := h.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to purge notifications: %w", err)
	}
	if deleted > 0 {
		common.LoggerFromContext(ctx).Log(common.LevelInfo, "Purged stored notifications", map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff,
		})
	}
	return &PurgeNotificationsResponse{Deleted: deleted, Cutoff: cutoff}, nil
}
