package model

import (
	"fmt"
	"strings"
)

// Bracket identifies which part of the tournament a match belongs to
type Bracket string

const (
	BracketWinners    Bracket = "winners"
	BracketLosers     Bracket = "losers"
	BracketFinal      Bracket = "final"
	BracketRoundRobin Bracket = "round-robin"
)

// Match is a single pairing between two players
type Match struct {
	ID               string  `json:"id"`
	MatchNumber      int     `json:"matchNumber"`
	Player1          string  `json:"player1"`
	Player2          string  `json:"player2"`
	Bracket          Bracket `json:"bracket"`
	Round            int     `json:"round"`
	Winner           string  `json:"winner,omitempty"` // Empty while open or when drawn
	IsDraw           bool    `json:"isDraw,omitempty"`
	ResolvedRandomly bool    `json:"resolvedRandomly,omitempty"`
}

// HasWinner reports whether a winner has been recorded
func (m *Match) HasWinner() bool {
	return m.Winner != ""
}

// Loser returns the player who did not win, or empty if there is no winner
func (m *Match) Loser() string {
	switch m.Winner {
	case m.Player1:
		return m.Player2
	case m.Player2:
		return m.Player1
	}
	return ""
}

// Involves reports whether the named player takes part in the match
func (m *Match) Involves(name string) bool {
	return m.Player1 == name || m.Player2 == name
}

// Outcome is the result submitted for a match
type Outcome int

const (
	OutcomePlayer1 Outcome = iota + 1
	OutcomePlayer2
	OutcomeDraw
)

// ParseOutcome converts the wire form ("1", "2" or "draw") into an Outcome
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1":
		return OutcomePlayer1, nil
	case "2":
		return OutcomePlayer2, nil
	case "draw":
		return OutcomeDraw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

func (o Outcome) String() string {
	switch o {
	case OutcomePlayer1:
		return "1"
	case OutcomePlayer2:
		return "2"
	case OutcomeDraw:
		return "draw"
	}
	return "unknown"
}

// Standing is a derived round-robin table row
type Standing struct {
	Points int `json:"points"`
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}
