package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
)

const writeWait = 5 * time.Second

// wireEvent is the JSON frame pushed to websocket clients
type wireEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Priority   string                 `json:"priority"`
	Scope      string                 `json:"scope"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type client struct {
	actorID string
	conn    *websocket.Conn
	mu      sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes events to connected actors over websockets. It is a
// notification.Sink: GLOBAL events go to everyone, the rest only to their recipients.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   common.ContainerLogger
}

// NewHub creates an empty hub
func NewHub(logger common.ContainerLogger) *Hub {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and subscribes the actor named by ?actor=
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID := r.URL.Query().Get("actor")
	if actorID == "" {
		http.Error(w, "missing actor", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Log(common.LevelWarn, "Websocket upgrade failed", map[string]interface{}{
			"actor_id": actorID,
			"error":    err.Error(),
		})
		return
	}

	c := &client{actorID: actorID, conn: conn}
	h.subscribe(c)
	defer h.unsubscribe(c)

	// Clients never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) subscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.actorID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.actorID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.actorID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.actorID)
		}
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Connected reports how many sockets are open
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Deliver implements notification.Sink. A socket that fails to accept the
// write is dropped; the error is reported once per event.
func (h *Hub) Deliver(ctx context.Context, event notification.Event) error {
	data, err := json.Marshal(wireEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		Priority:   string(event.Priority),
		Scope:      string(event.Scope),
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	targets := h.targets(event)
	var failed int
	for _, c := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.write(data); err != nil {
			failed++
			h.unsubscribe(c)
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to push event to %d of %d sockets", failed, len(targets))
	}
	return nil
}

func (h *Hub) targets(event notification.Event) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*client
	if event.Scope == notification.ScopeGlobal {
		for _, set := range h.clients {
			for c := range set {
				out = append(out, c)
			}
		}
		return out
	}
	for _, recipient := range event.Recipients {
		for c := range h.clients[recipient] {
			out = append(out, c)
		}
	}
	return out
}
