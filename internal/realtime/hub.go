// Package realtime maintains the registry of live WebSocket connections and
// fans notification payloads out to them. The registry is transient: entries
// exist only while a connection is open and are never persisted.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// connection wraps a websocket with a write lock so pushes from concurrent
// dispatches don't interleave frames.
type connection struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	userID string
}

func (c *connection) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub maps user IDs to their live connections. A user may have several open
// sessions (tabs); each receives every push. The hub is mutated only by
// connect, authenticate and disconnect events.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{}
}

// NewHub creates an empty connection registry.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*connection]struct{}),
	}
}

// add registers an authenticated connection for a user.
func (h *Hub) add(userID string, conn *websocket.Conn) *connection {
	c := &connection{conn: conn, userID: userID}

	h.mu.Lock()
	if _, ok := h.connections[userID]; !ok {
		h.connections[userID] = make(map[*connection]struct{})
	}
	h.connections[userID][c] = struct{}{}
	total := len(h.connections[userID])
	h.mu.Unlock()

	slog.Debug("Realtime connection registered", "user_id", userID, "connections", total)
	return c
}

// remove unregisters a connection and closes it. A user entry with no
// connections left is deleted so the registry never grows unbounded.
func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	if conns, ok := h.connections[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.connections, c.userID)
		}
	}
	h.mu.Unlock()

	_ = c.conn.Close()
	slog.Debug("Realtime connection removed", "user_id", c.userID)
}

// Push delivers the payload to every live connection of the user. A failed
// write means the connection is gone; it is dropped from the registry and the
// failure is swallowed; pull-based reads guarantee eventual visibility.
func (h *Hub) Push(userID string, payload any) {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.connections[userID]))
	for c := range h.connections[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(payload); err != nil {
			slog.Debug("Realtime push failed, dropping connection", "user_id", userID, "error", err)
			h.remove(c)
		}
	}
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}
