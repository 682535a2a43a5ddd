package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/api/handler"
	"github.com/mcoot/tourney/internal/api/middleware"
	sharedmw "github.com/mcoot/tourney/internal/middleware"
	"github.com/mcoot/tourney/internal/services/auth"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/web/live"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Controller  *tournament.Controller
	HubManager  *live.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	tournamentHandler := handler.NewTournamentHandler(cfg.Controller, cfg.Logger)
	backupHandler := handler.NewBackupHandler(cfg.Controller, cfg.Logger)
	streamHandler := handler.NewStreamHandler(cfg.Controller, cfg.HubManager, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes: reads, streams and login
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Logout).Methods(http.MethodDelete)

	api.HandleFunc("/tournaments", tournamentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/{id}", tournamentHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/{id}/status", tournamentHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/{id}/standings", tournamentHandler.Standings).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/{id}/current-match", tournamentHandler.CurrentMatch).Methods(http.MethodGet)
	api.HandleFunc("/tournaments/{id}/undo-reset", tournamentHandler.CanUndo).Methods(http.MethodGet)

	api.HandleFunc("/display/{instance}/events", streamHandler.DisplayEvents).Methods(http.MethodGet)
	api.HandleFunc("/display/{instance}/ws", streamHandler.DisplayWebSocket).Methods(http.MethodGet)
	api.HandleFunc("/events", streamHandler.Events).Methods(http.MethodGet)

	// Operator routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/tournaments", tournamentHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}", tournamentHandler.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/tournaments/{id}/start", tournamentHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/stop", tournamentHandler.Stop).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/reset", tournamentHandler.Reset).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/undo-reset", tournamentHandler.UndoReset).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/matches/{matchId}/result", tournamentHandler.SetResult).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/result", tournamentHandler.SetResultByNumber).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/players", tournamentHandler.AddPlayer).Methods(http.MethodPost)
	protected.HandleFunc("/tournaments/{id}/players/{name}", tournamentHandler.RemovePlayer).Methods(http.MethodDelete)
	protected.HandleFunc("/tournaments/{id}/players/{name}", tournamentHandler.ReplacePlayer).Methods(http.MethodPut)
	protected.HandleFunc("/tournaments/{id}/settings", tournamentHandler.UpdateSettings).Methods(http.MethodPatch)
	protected.HandleFunc("/tournaments/{id}/styles", tournamentHandler.UpdateStyles).Methods(http.MethodPatch)
	protected.HandleFunc("/tournaments/{id}/position", tournamentHandler.UpdatePosition).Methods(http.MethodPatch)
	protected.HandleFunc("/tournaments/{id}/overlay", tournamentHandler.UpdateOverlay).Methods(http.MethodPatch)
	protected.HandleFunc("/tournaments/{id}/visibility", tournamentHandler.SetVisibility).Methods(http.MethodPost)

	protected.HandleFunc("/backups", backupHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/backups/{backupId}/restore", backupHandler.Restore).Methods(http.MethodPost)
	protected.HandleFunc("/backups/{backupId}", backupHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/maintenance/cleanup", backupHandler.Cleanup).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
