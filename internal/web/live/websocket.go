package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Display clients are browser sources served from other origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and streams hub messages as websocket text
// frames. Incoming frames are read only to process control messages.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, clientID string, logger *slog.Logger, initial ...Message) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()))
		return
	}

	client := NewClient(hub, clientID, TransportWebSocket)
	client.queue(initial)
	hub.Register(client)

	go client.writePump(conn)
	client.readPump(conn, logger)
}

func (c *Client) readPump(conn *websocket.Conn, logger *slog.Logger) {
	defer func() {
		c.hub.Unregister(c)
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly",
					slog.String("client_id", c.id),
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
