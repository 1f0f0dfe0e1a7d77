package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
)

const writeWait = 5 * time.Second

// Hub keeps websocket connections grouped by session id and pushes each
// notification to the connections of its session.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub creates a Hub. allowedOrigin "*" or "" accepts any origin.
func NewHub(allowedOrigin string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger,
	}
}

// Register adds conn to the room of sessionID.
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[sessionID]; !ok {
		h.rooms[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.rooms[sessionID][conn] = struct{}{}
	h.logger.Debug("ws registered", zap.String("session_id", sessionID), zap.Int("conns", len(h.rooms[sessionID])))
}

// Unregister removes and closes conn.
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(sessionID, conn)
}

func (h *Hub) unregisterLocked(sessionID string, conn *websocket.Conn) {
	conns, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
	}
	if len(conns) == 0 {
		delete(h.rooms, sessionID)
	}
}

// Count returns the number of live connections for sessionID.
func (h *Hub) Count(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}

// CloseRoom disconnects every client of sessionID.
func (h *Hub) CloseRoom(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.rooms[sessionID] {
		h.unregisterLocked(sessionID, conn)
	}
}

// Deliver implements Sink. Connections that fail to write are dropped.
func (h *Hub) Deliver(_ context.Context, n model.Notification) error {
	msg := n.ToJSON()

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.rooms[n.SessionID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Warn("ws write failed", zap.String("session_id", n.SessionID), zap.Error(err))
			h.unregisterLocked(n.SessionID, conn)
		}
	}
	return nil
}

// ServeWS upgrades the request and keeps the connection registered under
// sessionID until the client goes away. It blocks.
//
// alive, when non-nil, is called once the connection is registered and on
// every client message; the connection is dropped as soon as it returns false.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, alive func() bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	h.Register(sessionID, conn)
	defer h.Unregister(sessionID, conn)

	if alive != nil && !alive() {
		h.logger.Debug("ws session gone", zap.String("session_id", sessionID))
		return
	}

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		if alive != nil && !alive() {
			return
		}
	}
}
