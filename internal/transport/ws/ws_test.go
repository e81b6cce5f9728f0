package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/realmcore/achievement-server-go/internal/game/achievements"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticClaims []achievements.RealmClaim

func (c staticClaims) Claims() []achievements.RealmClaim { return c }

type harness struct {
	hub    *Hub
	server *httptest.Server
	cancel context.CancelFunc
}

func newHarness(t *testing.T, claims ClaimLister) *harness {
	t.Helper()
	hub := NewHub(16, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(NewRouter(hub, claims, zap.NewNop()))
	h := &harness{hub: hub, server: server, cancel: cancel}
	t.Cleanup(h.close)
	return h
}

func (h *harness) close() {
	h.cancel()
	<-h.hub.Done()
	h.server.Close()
}

func (h *harness) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) events.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev events.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestFeedDeliversEvents(t *testing.T) {
	h := newHarness(t, staticClaims(nil))
	conn := h.dial(t, "")
	require.Eventually(t, func() bool { return h.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.hub.Publish(events.NewAchievementEvent(events.EventAchievementEarned, world.PlayerOwner(7), 100, time.Unix(1700000000, 0)))

	ev := readEvent(t, conn)
	assert.Equal(t, events.EventAchievementEarned, ev.Type)
	assert.Equal(t, uint32(100), ev.AchievementID)
	assert.Equal(t, world.PlayerOwner(7), ev.Owner)
}

func TestFeedFiltersByOwner(t *testing.T) {
	h := newHarness(t, staticClaims(nil))
	conn := h.dial(t, "?owner_kind=player&owner_id=7")
	require.Eventually(t, func() bool { return h.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.hub.Publish(events.NewCriteriaUpdate(world.PlayerOwner(8), 1, 1, 8, time.Now()))
	realm := events.NewAchievementEvent(events.EventAchievementBroadcast, world.PlayerOwner(8), 300, time.Now())
	realm.Scope = events.BroadcastRealm
	h.hub.Publish(realm)
	h.hub.Publish(events.NewCriteriaUpdate(world.PlayerOwner(7), 2, 5, 7, time.Now()))

	first := readEvent(t, conn)
	assert.Equal(t, events.EventAchievementBroadcast, first.Type, "realm broadcasts reach everyone")
	second := readEvent(t, conn)
	assert.Equal(t, uint32(2), second.CriteriaID)
	assert.Equal(t, uint64(5), second.Counter)
}

func TestFeedRejectsBadFilter(t *testing.T) {
	h := newHarness(t, staticClaims(nil))

	resp, err := http.Get(h.server.URL + "/ws?owner_kind=account&owner_id=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHubShutdownDisconnectsClients(t *testing.T) {
	h := newHarness(t, staticClaims(nil))
	conn := h.dial(t, "")
	require.Eventually(t, func() bool { return h.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.cancel()
	<-h.hub.Done()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, h.hub.Clients())

	h.hub.Publish(events.NewCriteriaDeleted(world.PlayerOwner(1), 1))
}

func TestHealthAndRealmFirsts(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := newHarness(t, staticClaims{{AchievementID: 300, Date: date, Permanent: true}})

	resp, err := http.Get(h.server.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(h.server.URL + "/realm-firsts")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var claims []achievements.RealmClaim
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&claims))
	require.Len(t, claims, 1)
	assert.Equal(t, uint32(300), claims[0].AchievementID)
	assert.True(t, claims[0].Permanent)
	assert.True(t, date.Equal(claims[0].Date))
}
