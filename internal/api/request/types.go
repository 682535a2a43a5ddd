package request

import "github.com/mcoot/tourney/internal/model"

// LoginRequest is the request body for an operator login
type LoginRequest struct {
	Operator string `json:"operator"`
	Key      string `json:"key"`
}

// CreateTournamentRequest is the request body for creating or reconfiguring a tournament
type CreateTournamentRequest struct {
	Title           string            `json:"title"`
	Players         []string          `json:"players,omitempty"`
	Settings        *model.Settings   `json:"settings,omitempty"`
	Styles          map[string]string `json:"styles,omitempty"`
	Position        string            `json:"position,omitempty"`
	CustomCoords    *model.Coords     `json:"customCoords,omitempty"`
	OverlayInstance string            `json:"overlayInstance,omitempty"`
	ResetOnLoad     bool              `json:"resetOnLoad,omitempty"`
}

// MatchResultRequest is the request body for reporting a match result.
// Winner is "1", "2" or "draw".
type MatchResultRequest struct {
	Winner       string `json:"winner"`
	DrawHandling string `json:"drawHandling,omitempty"`
}

// NumberedResultRequest reports a result by match number.
// A zero match number selects the first open match.
type NumberedResultRequest struct {
	MatchNumber  int    `json:"matchNumber,omitempty"`
	Winner       string `json:"winner"`
	DrawHandling string `json:"drawHandling,omitempty"`
}

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// ReplacePlayerRequest is the request body for renaming a player
type ReplacePlayerRequest struct {
	NewName string `json:"newName"`
}

// UpdatePositionRequest is the request body for moving the display
type UpdatePositionRequest struct {
	Position     string        `json:"position,omitempty"`
	CustomCoords *model.Coords `json:"customCoords,omitempty"`
}

// UpdateOverlayRequest is the request body for moving to another display instance
type UpdateOverlayRequest struct {
	OverlayInstance string `json:"overlayInstance"`
}

// VisibilityRequest is the request body for showing or hiding a tournament
type VisibilityRequest struct {
	Visible bool `json:"visible"`
}

// RestoreBackupRequest is the request body for restoring a backup
type RestoreBackupRequest struct {
	Overwrite bool `json:"overwrite,omitempty"`
}
