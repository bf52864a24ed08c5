package services

import (
	"context"
	"sync"
	"time"

	"diskmanager/internal/logging"
	"diskmanager/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "volumes", "access", "ping", "pong", "simulate", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// WebSocketHub broadcasts the poller output to every connected client
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	unregister chan string
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
	logger     *logrus.Entry
}

func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		unregister: make(chan string),
		done:       make(chan struct{}),
		logger:     logging.NewLogger("websocket"),
	}
}

// Run manages the hub's event loop until ctx is done
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.WithFields(logrus.Fields{"client": clientID, "total": count}).Info("client disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *WebSocketHub) ShowVolumes(update models.VolumeUpdate) {
	h.Broadcast(WebSocketMessage{
		Type:      "volumes",
		Timestamp: update.Timestamp,
		Data:      update,
	})
}

func (h *WebSocketHub) ShowAccess(indicator models.AccessIndicator) {
	h.Broadcast(WebSocketMessage{
		Type:      "access",
		Timestamp: indicator.Timestamp,
		Data:      indicator,
	})
}

// Register adds a new client to the hub. The client is reachable through
// SendMessage as soon as it returns. It reports false once the hub stopped.
func (h *WebSocketHub) Register(client *ClientConnection) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[client.ID] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{"client": client.ID, "total": count}).Info("client connected")
	return true
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// Broadcast queues a message for every client. It never blocks the caller.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.WithField("type", msg.Type).Warn("broadcast queue full, dropping message")
	}
}

// SendMessage sends a message to a specific client. It reports false when
// the client is gone or its send channel is full.
func (h *WebSocketHub) SendMessage(clientID string, msg WebSocketMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return false
	}

	select {
	case client.Send <- msg:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
