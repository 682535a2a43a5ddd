package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/tourney/internal/dependencies/notify"
	"github.com/mcoot/tourney/internal/model"
)

// Recorder captures emitted events and display pushes for assertions
type Recorder struct {
	mu       sync.Mutex
	events   []model.Event
	messages []model.DisplayMessage
}

var (
	_ notify.EventSink = (*Recorder)(nil)
	_ notify.Display   = (*Recorder)(nil)
)

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Push(_ context.Context, msg model.DisplayMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

// EventsOfType returns recorded events of one type
func (r *Recorder) EventsOfType(t model.EventType) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns a copy of the recorded display pushes
func (r *Recorder) Messages() []model.DisplayMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.DisplayMessage(nil), r.messages...)
}

// LastMessage returns the most recent display push
func (r *Recorder) LastMessage() (model.DisplayMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return model.DisplayMessage{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Clear drops everything recorded so far
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.messages = nil
}
