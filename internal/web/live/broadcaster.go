package live

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/tourney/internal/dependencies/notify"
	"github.com/mcoot/tourney/internal/model"
)

const (
	// EventsChannel carries every domain event
	EventsChannel = "events"
	// DefaultInstance is the display instance used when none is set
	DefaultInstance = "default"
)

// DisplayChannel returns the hub channel for a display instance
func DisplayChannel(instance string) string {
	if instance == "" {
		instance = DefaultInstance
	}
	return "display:" + instance
}

// Broadcaster publishes domain events and display messages to live clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

var (
	_ notify.EventSink = (*Broadcaster)(nil)
	_ notify.Display   = (*Broadcaster)(nil)
)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "live-broadcaster")),
	}
}

// Emit sends a domain event to the events channel
func (b *Broadcaster) Emit(ctx context.Context, event model.Event) {
	b.publish(EventsChannel, string(event.Type), event)
}

// Push sends a display message to the channel of its display instance
func (b *Broadcaster) Push(ctx context.Context, msg model.DisplayMessage) {
	b.publish(DisplayChannel(msg.OverlayInstance), string(msg.Type), msg)
}

func (b *Broadcaster) publish(channel, event string, payload any) {
	hub := b.hubManager.GetHub(channel)
	if hub == nil {
		return
	}
	data, err := Encode(payload)
	if err != nil {
		b.logger.Error("failed to encode live message",
			slog.String("channel", channel),
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}
	hub.Broadcast(event, data)
}

// Encode renders a payload the way live clients receive it
func Encode(payload any) ([]byte, error) {
	return json.Marshal(payload)
}
