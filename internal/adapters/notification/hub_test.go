package notification_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/fame0528/DarkFrame-sub009/internal/adapters/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

func dial(t *testing.T, srv *httptest.Server, actor string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?actor=" + actor
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHub_RoutesByRecipient(t *testing.T) {
	hub := adapter.NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	alpha := dial(t, srv, "alpha")
	bravo := dial(t, srv, "bravo")
	require.Eventually(t, func() bool { return hub.Connected() == 2 }, time.Second, 5*time.Millisecond)

	launched := notification.NewActorEvent(notification.EventWeaponLaunched, notification.PriorityHigh, occurred,
		map[string]interface{}{"weapon_id": "wpn-1"}, shared.MustNewActorID("alpha"))
	require.NoError(t, hub.Deliver(context.Background(), launched))

	frame := readFrame(t, alpha)
	assert.Equal(t, "WEAPON_LAUNCHED", frame["type"])
	assert.Equal(t, "HIGH", frame["priority"])

	require.NoError(t, bravo.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, _, err := bravo.ReadMessage()
	assert.Error(t, err, "bravo is not a recipient")
}

func TestHub_GlobalScopeReachesEveryone(t *testing.T) {
	hub := adapter.NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	alpha := dial(t, srv, "alpha")
	bravo := dial(t, srv, "bravo")
	require.Eventually(t, func() bool { return hub.Connected() == 2 }, time.Second, 5*time.Millisecond)

	global := notification.Event{
		ID:         "evt-global",
		Type:       notification.EventHostilesRevealed,
		Priority:   notification.PriorityLow,
		Scope:      notification.ScopeGlobal,
		OccurredAt: occurred,
	}
	require.NoError(t, hub.Deliver(context.Background(), global))

	assert.Equal(t, "evt-global", readFrame(t, alpha)["id"])
	assert.Equal(t, "evt-global", readFrame(t, bravo)["id"])
}

func TestHub_RejectsMissingActor(t *testing.T) {
	hub := adapter.NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}
