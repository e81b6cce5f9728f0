// Package ws streams achievement notifications to websocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/realmcore/achievement-server-go/internal/game/events"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512

	DefaultBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket subscriber. A client with a nil owner receives
// every event.
type Client struct {
	id    string
	conn  *websocket.Conn
	send  chan []byte
	owner *world.Owner
}

// ID returns the subscriber id.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) accepts(ev events.Event) bool {
	if c.owner == nil {
		return true
	}
	switch ev.Scope {
	case events.BroadcastRealm:
		return true
	case events.BroadcastGuild:
		if c.owner.Kind == world.OwnerGuild && c.owner.ID == ev.GuildID {
			return true
		}
	}
	return ev.Owner == *c.owner
}

type message struct {
	event events.Event
	data  []byte
}

// Hub fans published events out to the connected clients. It implements
// events.Publisher and never blocks the publisher: events are dropped when
// the hub falls behind and slow clients are disconnected.
type Hub struct {
	logger *zap.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]*Client
}

var _ events.Publisher = (*Hub)(nil)

// NewHub creates a hub whose queue holds buffer events.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, buffer),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Run serves the hub until ctx is done and then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Debug("subscriber registered", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for _, client := range h.clients {
				if !client.accepts(msg.event) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.logger.Warn("slow subscriber disconnected", zap.String("client_id", client.id))
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
		h.logger.Debug("subscriber unregistered", zap.String("client_id", client.id))
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues ev for delivery.
func (h *Hub) Publish(ev events.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{event: ev, data: data}:
	case <-h.done:
	default:
		h.logger.Warn("notification queue full, event dropped", zap.String("type", string(ev.Type)))
	}
}

// ServeWS upgrades the request and subscribes the connection. The optional
// owner_kind and owner_id query parameters restrict the feed to one owner.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		id:    uuid.NewString(),
		conn:  conn,
		send:  make(chan []byte, DefaultBuffer),
		owner: owner,
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

type filterError string

func (e filterError) Error() string { return string(e) }

func ownerFilter(r *http.Request) (*world.Owner, error) {
	kind := r.URL.Query().Get("owner_kind")
	rawID := r.URL.Query().Get("owner_id")
	if kind == "" && rawID == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, filterError("invalid owner_id")
	}
	switch kind {
	case "player":
		owner := world.PlayerOwner(world.ObjectGUID(id))
		return &owner, nil
	case "guild":
		owner := world.GuildOwner(id)
		return &owner, nil
	default:
		return nil, filterError("owner_kind must be player or guild")
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// The feed is one way; reads only detect a closed connection.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
