package websocket

import (
	"sync"

	"dispatch-console/pkg/logger"
)

// Hub tracks live console sessions by session id.
type Hub struct {
	sessions map[string]*Connection
	mu       sync.RWMutex
	log      logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Connection),
		log:      log,
	}
}

func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	h.sessions[conn.ID] = conn
	total := len(h.sessions)
	h.mu.Unlock()

	h.log.WithFields(logger.LogFields{
		"session_id": conn.ID,
		"total":      total,
	}).Info("websocket_connected", "Session added")
}

// Remove forgets a session. The connection closes itself when its read
// pump exits.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	total := len(h.sessions)
	h.mu.Unlock()

	if ok {
		h.log.WithFields(logger.LogFields{
			"session_id": id,
			"total":      total,
		}).Info("websocket_disconnected", "Session removed")
	}
}

// NotifyScreen sends message to every session that has screen open and
// returns how many accepted it.
func (h *Hub) NotifyScreen(screen string, message interface{}) int {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		if conn.Screen() == screen {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, conn := range targets {
		if err := conn.WriteJSON(message); err != nil {
			h.log.WithFields(logger.LogFields{"session_id": conn.ID, "screen": screen}).Error("websocket_notify_failed", err)
			continue
		}
		sent++
	}
	return sent
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
