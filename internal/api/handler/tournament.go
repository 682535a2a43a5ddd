package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/api/middleware"
	"github.com/mcoot/tourney/internal/api/request"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// TournamentHandler handles tournament endpoints
type TournamentHandler struct {
	controller *tournament.Controller
	logger     *slog.Logger
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(controller *tournament.Controller, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		controller: controller,
		logger:     logger.With(slog.String("component", "tournament-handler")),
	}
}

func tournamentID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// audit records who performed a mutating operation
func (h *TournamentHandler) audit(r *http.Request, op, id string) {
	h.logger.Info("tournament command",
		slog.String("op", op),
		slog.String("tournament_id", id),
		slog.String("operator", middleware.Operator(r.Context())),
	)
}

// writeTournament writes a tournament document, or the error that produced it
func writeTournament(w http.ResponseWriter, status int, t *model.TournamentState, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.TournamentFromModel(t))
}

// List handles GET /api/v1/tournaments
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.controller.ListTournaments(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if summaries == nil {
		summaries = []model.Summary{}
	}
	response.JSON(w, http.StatusOK, response.TournamentList{Tournaments: summaries})
}

// Create handles POST /api/v1/tournaments
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTournamentRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.controller.CreateTournament(r.Context(), tournament.CreateParams{
		Title:           req.Title,
		Players:         req.Players,
		Settings:        req.Settings,
		Styles:          req.Styles,
		Position:        req.Position,
		CustomCoords:    req.CustomCoords,
		OverlayInstance: req.OverlayInstance,
		ResetOnLoad:     req.ResetOnLoad,
	})
	if err == nil {
		h.audit(r, "create", t.ID)
	}
	writeTournament(w, http.StatusCreated, t, err)
}

// Get handles GET /api/v1/tournaments/{id}
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.controller.GetTournament(r.Context(), tournamentID(r))
	writeTournament(w, http.StatusOK, t, err)
}

// Remove handles DELETE /api/v1/tournaments/{id}
func (h *TournamentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	backup, err := h.controller.RemoveTournament(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.audit(r, "remove", id)
	response.JSON(w, http.StatusOK, response.BackupFromModel(backup))
}

// Status handles GET /api/v1/tournaments/{id}/status
func (h *TournamentHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	status, err := h.controller.Status(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Status{ID: id, Status: status})
}

// Standings handles GET /api/v1/tournaments/{id}/standings
func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	rows, err := h.controller.Standings(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if rows == nil {
		rows = []tournament.StandingRow{}
	}
	response.JSON(w, http.StatusOK, response.Standings{ID: id, Standings: rows})
}

// CurrentMatch handles GET /api/v1/tournaments/{id}/current-match
func (h *TournamentHandler) CurrentMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.controller.CurrentMatch(r.Context(), tournamentID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, m)
}

// Start handles POST /api/v1/tournaments/{id}/start
func (h *TournamentHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	t, err := h.controller.StartTournament(r.Context(), id)
	if err == nil {
		h.audit(r, "start", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// Stop handles POST /api/v1/tournaments/{id}/stop
func (h *TournamentHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	t, err := h.controller.StopTournament(r.Context(), id)
	if err == nil {
		h.audit(r, "stop", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// Reset handles POST /api/v1/tournaments/{id}/reset
func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	t, err := h.controller.ResetWithUndo(r.Context(), id)
	if err == nil {
		h.audit(r, "reset", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// UndoReset handles POST /api/v1/tournaments/{id}/undo-reset
func (h *TournamentHandler) UndoReset(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	t, err := h.controller.UndoReset(r.Context(), id)
	if err == nil {
		h.audit(r, "undo-reset", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// CanUndo handles GET /api/v1/tournaments/{id}/undo-reset
func (h *TournamentHandler) CanUndo(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CanUndo{
		CanUndo: h.controller.CanUndoReset(r.Context(), tournamentID(r)),
	})
}

// parseResult converts the wire form of a result into an outcome and draw policy
func parseResult(winner, drawHandling string) (model.Outcome, model.DrawPolicy, error) {
	outcome, err := model.ParseOutcome(winner)
	if err != nil {
		return 0, nil, err
	}
	if outcome != model.OutcomeDraw {
		return outcome, nil, nil
	}
	policy, err := model.ParseDrawPolicy(drawHandling)
	if err != nil {
		return 0, nil, err
	}
	return outcome, policy, nil
}

// SetResult handles POST /api/v1/tournaments/{id}/matches/{matchId}/result
func (h *TournamentHandler) SetResult(w http.ResponseWriter, r *http.Request) {
	var req request.MatchResultRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	outcome, policy, err := parseResult(req.Winner, req.DrawHandling)
	if err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.SetMatchWinner(r.Context(), id, mux.Vars(r)["matchId"], outcome, policy)
	if err == nil {
		h.audit(r, "result", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// SetResultByNumber handles POST /api/v1/tournaments/{id}/result
func (h *TournamentHandler) SetResultByNumber(w http.ResponseWriter, r *http.Request) {
	var req request.NumberedResultRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	outcome, policy, err := parseResult(req.Winner, req.DrawHandling)
	if err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.SetMatchWinnerByNumber(r.Context(), id, req.MatchNumber, outcome, policy)
	if err == nil {
		h.audit(r, "result", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// AddPlayer handles POST /api/v1/tournaments/{id}/players
func (h *TournamentHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.AddPlayer(r.Context(), id, req.Name)
	if err == nil {
		h.audit(r, "add-player", id)
	}
	writeTournament(w, http.StatusCreated, t, err)
}

// RemovePlayer handles DELETE /api/v1/tournaments/{id}/players/{name}
func (h *TournamentHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	t, err := h.controller.RemovePlayer(r.Context(), id, mux.Vars(r)["name"])
	if err == nil {
		h.audit(r, "remove-player", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// ReplacePlayer handles PUT /api/v1/tournaments/{id}/players/{name}
func (h *TournamentHandler) ReplacePlayer(w http.ResponseWriter, r *http.Request) {
	var req request.ReplacePlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.ReplacePlayer(r.Context(), id, mux.Vars(r)["name"], req.NewName)
	if err == nil {
		h.audit(r, "replace-player", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// UpdateSettings handles PATCH /api/v1/tournaments/{id}/settings.
// Fields missing from the body keep their current values.
func (h *TournamentHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	current, err := h.controller.GetTournament(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	settings := current.Data.Settings
	if err := decode(r, &settings); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.controller.UpdateSettings(r.Context(), id, settings)
	if err == nil {
		h.audit(r, "update-settings", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// UpdateStyles handles PATCH /api/v1/tournaments/{id}/styles
func (h *TournamentHandler) UpdateStyles(w http.ResponseWriter, r *http.Request) {
	var styles map[string]string
	if err := decode(r, &styles); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.UpdateStyles(r.Context(), id, styles)
	if err == nil {
		h.audit(r, "update-styles", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// UpdatePosition handles PATCH /api/v1/tournaments/{id}/position
func (h *TournamentHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePositionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.UpdatePosition(r.Context(), id, req.Position, req.CustomCoords)
	if err == nil {
		h.audit(r, "update-position", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// UpdateOverlay handles PATCH /api/v1/tournaments/{id}/overlay
func (h *TournamentHandler) UpdateOverlay(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateOverlayRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.UpdateOverlayInstance(r.Context(), id, req.OverlayInstance)
	if err == nil {
		h.audit(r, "update-overlay", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}

// SetVisibility handles POST /api/v1/tournaments/{id}/visibility
func (h *TournamentHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req request.VisibilityRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := tournamentID(r)
	t, err := h.controller.SetVisibility(r.Context(), id, req.Visible)
	if err == nil {
		h.audit(r, "visibility", id)
	}
	writeTournament(w, http.StatusOK, t, err)
}
