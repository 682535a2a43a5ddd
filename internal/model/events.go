package model

import "time"

// EventSource identifies this system as the origin of emitted events
const EventSource = "tournament-system"

// EventType identifies the type of event
type EventType string

const (
	EventTournamentStarted EventType = "tournament-started"
	EventMatchUpdated      EventType = "match-updated"
	EventTournamentEnded   EventType = "tournament-ended"
)

// Event is the base structure for all domain events
type Event struct {
	Source       string    `json:"source"`
	Type         EventType `json:"type"`
	TournamentID string    `json:"tournamentId"`
	Timestamp    time.Time `json:"timestamp"`
	Payload      any       `json:"payload"`
}

// TournamentStartedPayload contains data for tournament started events
type TournamentStartedPayload struct {
	TournamentID string   `json:"tournamentId"`
	Title        string   `json:"title"`
	Players      []string `json:"players"`
}

// MatchUpdatedPayload contains data for match updated events
type MatchUpdatedPayload struct {
	TournamentID string `json:"tournamentId"`
	Title        string `json:"title"`
	MatchNumber  int    `json:"matchNumber"`
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Winner       string `json:"winner,omitempty"`
	BracketStage Stage  `json:"bracketStage"`
	Round        int    `json:"round"`
	IsDraw       bool   `json:"isDraw,omitempty"`
	DrawHandling string `json:"drawHandling,omitempty"`
}

// TournamentEndedPayload contains data for tournament ended events
type TournamentEndedPayload struct {
	TournamentID  string `json:"tournamentId"`
	Title         string `json:"title"`
	Winner        string `json:"winner"`
	MatchesPlayed int    `json:"matchesPlayed"`
	Duration      int64  `json:"duration"` // Seconds since creation
}
