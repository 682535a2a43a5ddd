package live

import (
	"net/http"
	"time"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from a websocket peer
	pongWait = 60 * time.Second

	// Time between keepalive pings
	pingPeriod = (pongWait * 9) / 10

	// Largest message accepted from a websocket peer
	maxMessageSize = 512

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Transport names
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Client is a connected subscriber of a hub
type Client struct {
	hub         *Hub
	id          string
	transport   string
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a new client for a hub
func NewClient(hub *Hub, id, transport string) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		transport:   transport,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// queue preloads messages the client receives before any broadcast
func (c *Client) queue(messages []Message) {
	for _, m := range messages {
		select {
		case c.send <- m:
		default:
			return
		}
	}
}

// ServeSSE streams hub messages to the client as server-sent events.
// initial messages are written first, ahead of any broadcast.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, clientID string, initial ...Message) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(hub, clientID, TransportSSE)
	client.queue(initial)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(formatSSEMessage(message.Event, message.Data)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
