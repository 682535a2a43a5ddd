package live

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Message is one named payload delivered to every client of a hub
type Message struct {
	Event string
	Data  []byte
}

// Hub fans messages out to the clients subscribed to one channel
type Hub struct {
	channel string
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a channel
func NewHub(channel string, logger *slog.Logger) *Hub {
	return &Hub{
		channel:    channel,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("channel", channel)),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("transport", client.transport),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			total := len(h.clients)
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.String("event", message.Event),
					slog.Int("sent", total-dropped),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every client
func (h *Hub) Broadcast(event string, data []byte) {
	select {
	case h.broadcast <- Message{Event: event, Data: data}:
	default:
		h.logger.Warn("broadcast dropped, hub buffer full", slog.String("event", event))
	}
}

// Close shuts down the hub and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName string, data []byte) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteByte('\n')
	for _, line := range splitLines(string(data)) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// splitLines splits a string into lines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager owns one hub per channel
type HubManager struct {
	hubs   map[string]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[string]*Hub),
		logger: logger.With(slog.String("component", "live")),
	}
}

// GetOrCreateHub returns the hub for a channel, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(channel string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[channel]; ok {
		return hub
	}

	hub := NewHub(channel, m.logger)
	m.hubs[channel] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a channel, or nil if it doesn't exist
func (m *HubManager) GetHub(channel string) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[channel]
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for channel, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, channel)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removed))
	}
}

// CloseAll shuts down every hub
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for channel, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, channel)
	}
}
