package model

// DisplayMessageType is the kind of display push
type DisplayMessageType string

const (
	DisplayUpdate DisplayMessageType = "update"
	DisplayRemove DisplayMessageType = "remove"
	DisplayHide   DisplayMessageType = "hide"
	DisplayShow   DisplayMessageType = "show"
)

// DisplayConfig is the normalized snapshot a display renders from
type DisplayConfig struct {
	TournamentID    string            `json:"tournamentId"`
	TournamentTitle string            `json:"tournamentTitle"`
	TournamentData  *TournamentData   `json:"tournamentData,omitempty"`
	Styles          map[string]string `json:"styles,omitempty"`
	Settings        *Settings         `json:"settings,omitempty"`
	Position        string            `json:"position,omitempty"`
	CustomCoords    *Coords           `json:"customCoords,omitempty"`
	Ended           bool              `json:"ended,omitempty"`
	IsResetting     bool              `json:"isResetting,omitempty"`
}

// DisplayMessage is pushed to the display channel of an overlay instance
type DisplayMessage struct {
	Type            DisplayMessageType `json:"type"`
	OverlayInstance string             `json:"overlayInstance"`
	Config          DisplayConfig      `json:"config"`
}
