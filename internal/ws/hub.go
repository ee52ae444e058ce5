// Package ws provides the real-time push channel. The hub keys live
// WebSocket connections by actor id so notification delivery can target
// one interpreter or client directly. An actor may hold several
// connections (two browser tabs, a phone and a laptop); a push fans out
// to all of them.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxMessageSize = 512
	sendBufferSize = 64
)

// Presence is the hub's view of the presence cache: connection lifecycle
// events keep it current, the notification path reads it.
type Presence interface {
	SetOnline(ctx context.Context, actorID kernel.UUID, connID string) error
	Refresh(ctx context.Context, actorID kernel.UUID) error
	SetOffline(ctx context.Context, actorID kernel.UUID, connID string) error
}

// connection is one live WebSocket held by an actor.
type connection struct {
	id      string
	actorID kernel.UUID
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks live connections per actor and delivers push payloads.
// Delivery is best-effort: a connection that cannot keep up is dropped
// rather than allowed to block the delivery path.
type Hub struct {
	mu          sync.RWMutex
	connections map[kernel.UUID]map[*connection]struct{}

	presence Presence
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHub creates a hub wired to the given presence cache.
func NewHub(presence Presence, logger *slog.Logger) (*Hub, error) {
	if presence == nil {
		return nil, errs.NewValueIsRequiredError("presence")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Hub{
		connections: make(map[kernel.UUID]map[*connection]struct{}),
		presence:    presence,
		logger:      logger.With("component", "ws-hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// ServeWS upgrades the HTTP request to a WebSocket and registers the
// connection under the given actor id. It returns once the pumps are
// started; the connection lives until the peer goes away or a write
// fails.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		id:      uuid.NewString(),
		actorID: actorID,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// Push delivers the payload to every live connection of the actor.
// Returns false when the actor has no live connection here, so the
// caller can fall back to logging the miss.
func (h *Hub) Push(actorID kernel.UUID, payload []byte) bool {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.connections[actorID]))
	for c := range h.connections[actorID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return false
	}

	delivered := false
	for _, c := range conns {
		select {
		case c.send <- payload:
			delivered = true
		default:
			// Slow consumer: drop the connection, not the payload path.
			h.logger.Warn("dropping slow connection",
				"actor_id", c.actorID.String(), "conn_id", c.id)
			h.unregister(c)
		}
	}
	return delivered
}

// IsConnected reports whether the actor holds at least one live
// connection on this hub instance.
func (h *Hub) IsConnected(actorID kernel.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[actorID]) > 0
}

// Close terminates every live connection. Used during shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*connection, 0)
	for _, set := range h.connections {
		for c := range set {
			conns = append(conns, c)
		}
	}
	h.connections = make(map[kernel.UUID]map[*connection]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		close(c.send)
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	set, ok := h.connections[c.actorID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.actorID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	if err := h.presence.SetOnline(context.Background(), c.actorID, c.id); err != nil {
		h.logger.Warn("presence set online failed",
			"actor_id", c.actorID.String(), "error", err)
	}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	set, ok := h.connections[c.actorID]
	if ok {
		if _, live := set[c]; !live {
			h.mu.Unlock()
			return
		}
		delete(set, c)
		if len(set) == 0 {
			delete(h.connections, c.actorID)
		}
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	close(c.send)

	if err := h.presence.SetOffline(context.Background(), c.actorID, c.id); err != nil {
		h.logger.Warn("presence set offline failed",
			"actor_id", c.actorID.String(), "error", err)
	}
}

// readPump consumes inbound frames. The channel is push-only, so inbound
// payloads are discarded; the pump exists to run the pong handler and to
// notice the peer going away.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := h.presence.Refresh(context.Background(), c.actorID); err != nil {
			h.logger.Warn("presence refresh failed",
				"actor_id", c.actorID.String(), "error", err)
		}
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends payloads and heartbeats to the peer.
func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
