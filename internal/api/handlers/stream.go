package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/stockai/dashboard/internal/store"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

const (
	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	// 클라이언트는 아무것도 보내지 않음 (close/pong만)
	maxMessageSize = 512
)

// StreamHandler pushes store snapshots to websocket clients
// ⭐ SSOT: 대시보드 실시간 푸시는 이 핸들러에서만
type StreamHandler struct {
	store    *store.Store
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(st *store.Store, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		store: st,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 로컬 대시보드 전용
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.Component("stream"),
	}
}

// ServeWS sends the current snapshot, then one snapshot per store change
// GET /ws
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	h.logger.WithField("remote", r.RemoteAddr).Debug("Stream client connected")

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	if err := h.write(conn, h.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-done:
			h.logger.WithField("remote", r.RemoteAddr).Debug("Stream client disconnected")
			return

		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, snap); err != nil {
				h.logger.WithError(err).Debug("Stream write failed")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains control frames until the client goes away
func (h *StreamHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, snap store.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}
