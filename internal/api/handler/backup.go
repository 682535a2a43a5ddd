package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/api/middleware"
	"github.com/mcoot/tourney/internal/api/request"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// BackupHandler handles backup and maintenance endpoints
type BackupHandler struct {
	controller *tournament.Controller
	logger     *slog.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(controller *tournament.Controller, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		controller: controller,
		logger:     logger.With(slog.String("component", "backup-handler")),
	}
}

// List handles GET /api/v1/backups
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.controller.ListBackups(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BackupListFromModel(backups))
}

// Restore handles POST /api/v1/backups/{backupId}/restore.
// The body is optional.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req request.RestoreBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	backupID := mux.Vars(r)["backupId"]
	t, err := h.controller.RestoreBackup(r.Context(), backupID, req.Overwrite)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.logger.Info("backup restored",
		slog.String("backup_id", backupID),
		slog.String("tournament_id", t.ID),
		slog.String("operator", middleware.Operator(r.Context())),
	)
	response.JSON(w, http.StatusOK, response.TournamentFromModel(t))
}

// Delete handles DELETE /api/v1/backups/{backupId}
func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	backupID := mux.Vars(r)["backupId"]
	if err := h.controller.RemoveBackup(r.Context(), backupID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Cleanup handles POST /api/v1/maintenance/cleanup
func (h *BackupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.controller.CleanupOldBackups(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	h.logger.Info("retention sweep requested",
		slog.Int("backups_removed", result.BackupsRemoved),
		slog.Int("tournaments_removed", result.TournamentsRemoved),
	)
	response.JSON(w, http.StatusOK, result)
}
