package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"diskmanager/internal/middleware"
	"diskmanager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const requestTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origins are already filtered by the CORS middleware
		return true
	},
}

// HandleWebSocket streams volume and access updates to the client
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	serverName := "anonymous"
	if claims := middleware.Claims(c); claims != nil {
		serverName = claims.ServerName
		h.Security.LogWebSocketConnected(c.ClientIP(), serverName)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &services.ClientConnection{
		ID:   fmt.Sprintf("%s-%s-%d", c.ClientIP(), serverName, h.clients.Add(1)),
		Conn: ws,
		Send: make(chan services.WebSocketMessage, 256),
	}

	if !h.Hub.Register(client) {
		ws.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)

	// the new client starts from the current state
	if update, ok := h.Cache.Volumes(); ok {
		h.Hub.SendMessage(client.ID, services.WebSocketMessage{Type: "volumes", Timestamp: update.Timestamp, Data: update})
	}
	indicator, _ := h.Cache.Access()
	h.Hub.SendMessage(client.ID, services.WebSocketMessage{Type: "access", Timestamp: indicator.Timestamp, Data: indicator})
}

// readPump reads messages from the WebSocket client
func (h *Handlers) readPump(client *services.ClientConnection) {
	defer func() {
		h.Hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	for {
		var msg services.WebSocketMessage
		err := client.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).WithField("client", client.ID).Warn("websocket read error")
			}
			return
		}

		switch msg.Type {
		case "ping":
			h.Hub.SendMessage(client.ID, services.WebSocketMessage{Type: "pong", Timestamp: time.Now()})

		case "refresh":
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			_, err := h.Poller.Refresh(ctx)
			cancel()
			if err != nil {
				h.Hub.SendMessage(client.ID, errorMessage(err))
			}

		case "simulate":
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			started, err := h.Poller.TriggerAccess(ctx)
			cancel()
			if err != nil {
				h.Hub.SendMessage(client.ID, errorMessage(err))
				continue
			}
			h.Hub.SendMessage(client.ID, services.WebSocketMessage{
				Type:      "simulate",
				Timestamp: time.Now(),
				Data:      map[string]interface{}{"started": started},
			})

		case "unsubscribe":
			return

		default:
			h.logger.WithField("type", msg.Type).Debug("unknown websocket message type")
		}
	}
}

// writePump writes messages to the WebSocket client
func (h *Handlers) writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for msg := range client.Send {
		if err := client.Conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).WithField("client", client.ID).Warn("websocket write error")
			}
			return
		}
	}
	// Channel closed by the hub
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func errorMessage(err error) services.WebSocketMessage {
	return services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: err.Error()}
}
