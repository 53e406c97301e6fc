package queries

import (
	"context"
	"fmt"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

const defaultNotificationLimit = 50

// ListNotificationsQuery reads the stored notifications addressed to an actor,
// including GLOBAL ones, newest first
type ListNotificationsQuery struct {
	ActorID shared.ActorID
	Limit   int
}

// ListNotificationsResponse contains the events
type ListNotificationsResponse struct {
	Events []notification.Event
}

// ListNotificationsHandler handles the list notifications query
type ListNotificationsHandler struct {
	store notification.Store
}

func NewListNotificationsHandler(store notification.Store) *ListNotificationsHandler {
	return &ListNotificationsHandler{store: store}
}

// Handle executes the list notifications query
func (h *ListNotificationsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListNotificationsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	events, err := h.store.ListForRecipient(ctx, query.ActorID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &ListNotificationsResponse{Events: events}, nil
}
