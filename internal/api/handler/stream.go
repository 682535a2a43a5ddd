package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/web/live"
)

// StreamHandler serves the display and event streams
type StreamHandler struct {
	controller *tournament.Controller
	hubManager *live.HubManager
	logger     *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(controller *tournament.Controller, hubManager *live.HubManager, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		controller: controller,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "stream-handler")),
	}
}

// displaySnapshot returns the initial messages for a display instance.
// Tournaments with no overlay instance render on the default one.
func (h *StreamHandler) displaySnapshot(r *http.Request, instance string) ([]live.Message, error) {
	msgs, err := h.controller.DisplaySnapshot(r.Context(), instance)
	if err != nil {
		return nil, err
	}
	if instance == live.DefaultInstance {
		unassigned, err := h.controller.DisplaySnapshot(r.Context(), "")
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, unassigned...)
	}

	initial := make([]live.Message, 0, len(msgs))
	for _, msg := range msgs {
		msg.OverlayInstance = instance
		data, err := live.Encode(msg)
		if err != nil {
			return nil, err
		}
		initial = append(initial, live.Message{Event: string(model.DisplayUpdate), Data: data})
	}
	return initial, nil
}

// DisplayEvents handles GET /api/v1/display/{instance}/events
func (h *StreamHandler) DisplayEvents(w http.ResponseWriter, r *http.Request) {
	instance := mux.Vars(r)["instance"]
	initial, err := h.displaySnapshot(r, instance)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(live.DisplayChannel(instance))
	live.ServeSSE(w, r, hub, uuid.NewString(), initial...)
}

// DisplayWebSocket handles GET /api/v1/display/{instance}/ws
func (h *StreamHandler) DisplayWebSocket(w http.ResponseWriter, r *http.Request) {
	instance := mux.Vars(r)["instance"]
	initial, err := h.displaySnapshot(r, instance)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(live.DisplayChannel(instance))
	live.ServeWS(w, r, hub, uuid.NewString(), h.logger, initial...)
}

// Events handles GET /api/v1/events
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(live.EventsChannel)
	live.ServeSSE(w, r, hub, uuid.NewString())
}
