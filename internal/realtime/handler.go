package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/divvyhq/divvy/internal/auth"
)

const (
	// authTimeout is how long a fresh connection has to authenticate before
	// it is dropped.
	authTimeout = 10 * time.Second

	readLimit = 4096
)

// TokenValidator validates a session token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*auth.Claims, error)
}

// AuthMessage is the handshake a client must send as its first frame.
// The channel does not trust transport-level identity: the token is
// validated and its subject must match UserID.
type AuthMessage struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Handler upgrades HTTP requests to WebSocket connections and runs the
// authenticate/register/read-until-close lifecycle against the hub.
type Handler struct {
	hub    *Hub
	tokens TokenValidator

	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler backed by the given hub.
func NewHandler(hub *Hub, tokens TokenValidator) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the connection, performs the auth handshake, registers
// the connection, and then drains inbound frames until the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		slog.Warn("WebSocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	userID, ok := h.authenticate(conn)
	if !ok {
		_ = conn.Close()
		return
	}

	c := h.hub.add(userID, conn)
	defer h.hub.remove(c)

	conn.SetReadLimit(readLimit)
	for {
		// Clients have nothing to say after the handshake; this loop exists
		// to observe the close.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// authenticate reads and validates the handshake frame. On success it sends
// the auth_success acknowledgement and returns the authenticated user ID.
func (h *Handler) authenticate(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	var msg AuthMessage
	if err := conn.ReadJSON(&msg); err != nil {
		slog.Debug("WebSocket handshake read failed", "error", err)
		return "", false
	}
	if msg.Type != "auth" {
		h.reject(conn, "expected auth message")
		return "", false
	}

	claims, err := h.tokens.Validate(msg.Token)
	if err != nil {
		h.reject(conn, "invalid token")
		return "", false
	}
	if msg.UserID != "" && msg.UserID != claims.UserID {
		h.reject(conn, "token does not match userId")
		return "", false
	}

	if err := conn.WriteJSON(map[string]string{"type": "auth_success"}); err != nil {
		return "", false
	}
	return claims.UserID, true
}

func (h *Handler) reject(conn *websocket.Conn, reason string) {
	_ = conn.WriteJSON(map[string]string{"type": "auth_error", "error": reason})
}
