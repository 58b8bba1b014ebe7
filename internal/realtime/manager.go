// Package realtime serves chat over WebSocket connections.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// ConnectionManager tracks open chat sockets per owner and browser session.
type ConnectionManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewConnectionManager creates an empty registry.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// GetActive returns the open connection for an owner and session.
func (m *ConnectionManager) GetActive(ownerID, sessionID string) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[ownerID]; ok {
		return sessions[sessionID]
	}
	return nil
}

// Register adds conn, closing any older connection for the same session.
func (m *ConnectionManager) Register(ownerID, sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[ownerID]; !exists {
		m.active[ownerID] = make(map[string]*websocket.Conn)
	}

	if existing, exists := m.active[ownerID][sessionID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}

	m.active[ownerID][sessionID] = conn
	slog.Info("Chat socket registered", "owner_id", ownerID, "session_id", sessionID)
}

// Unregister removes conn if it is still the current one for the session.
func (m *ConnectionManager) Unregister(ownerID, sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[ownerID]; ok {
		if current, exists := sessions[sessionID]; exists && current == conn {
			delete(sessions, sessionID)
			if len(sessions) == 0 {
				delete(m.active, ownerID)
			}
			slog.Info("Chat socket unregistered", "owner_id", ownerID, "session_id", sessionID)
		}
	}
}

// Sessions returns the open session IDs for an owner.
func (m *ConnectionManager) Sessions(ownerID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.active[ownerID]))
	for sid := range m.active[ownerID] {
		out = append(out, sid)
	}
	return out
}

// Count returns the number of open connections.
func (m *ConnectionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}

// CloseAll closes every connection, used on shutdown.
func (m *ConnectionManager) CloseAll(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ownerID, sessions := range m.active {
		for _, conn := range sessions {
			_ = conn.Close(websocket.StatusGoingAway, reason)
		}
		delete(m.active, ownerID)
	}
}
