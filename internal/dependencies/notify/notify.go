package notify

import (
	"context"

	"github.com/mcoot/tourney/internal/model"
)

// EventSink receives domain events emitted by the tournament engine
type EventSink interface {
	Emit(ctx context.Context, event model.Event)
}

// Display receives display snapshots for an overlay
type Display interface {
	Push(ctx context.Context, msg model.DisplayMessage)
}

// Nop discards everything it is given
type Nop struct{}

var (
	_ EventSink = Nop{}
	_ Display   = Nop{}
)

func (Nop) Emit(context.Context, model.Event)          {}
func (Nop) Push(context.Context, model.DisplayMessage) {}

// Fanout forwards to several sinks and displays
type Fanout struct {
	Sinks    []EventSink
	Displays []Display
}

// Emit sends the event to every sink
func (f *Fanout) Emit(ctx context.Context, event model.Event) {
	for _, s := range f.Sinks {
		s.Emit(ctx, event)
	}
}

// Push sends the message to every display
func (f *Fanout) Push(ctx context.Context, msg model.DisplayMessage) {
	for _, d := range f.Displays {
		d.Push(ctx, msg)
	}
}
