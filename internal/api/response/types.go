package response

import (
	"time"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/auth"
	"github.com/mcoot/tourney/internal/services/tournament"
)

// Session is the response for an operator login
type Session struct {
	Token     string    `json:"token"`
	Operator  string    `json:"operator"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionFromAuth converts an auth.Session
func SessionFromAuth(s *auth.Session) Session {
	return Session{
		Token:     s.Token,
		Operator:  s.Operator,
		ExpiresAt: s.ExpiresAt,
	}
}

// Tournament is a tournament document plus its progress line
type Tournament struct {
	*model.TournamentState
	StatusText string `json:"statusText"`
}

// TournamentFromModel wraps a tournament state for a response
func TournamentFromModel(t *model.TournamentState) Tournament {
	return Tournament{
		TournamentState: t,
		StatusText:      tournament.StatusText(t),
	}
}

// TournamentList is the response for listing tournaments
type TournamentList struct {
	Tournaments []model.Summary `json:"tournaments"`
}

// Status is the response for the status endpoint
type Status struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Standings is the response for the standings endpoint
type Standings struct {
	ID        string                   `json:"id"`
	Standings []tournament.StandingRow `json:"standings"`
}

// CanUndo reports whether a reset can still be undone
type CanUndo struct {
	CanUndo bool `json:"canUndo"`
}

// Backup summarises a stored backup
type Backup struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	Title        string    `json:"title"`
	RemovedAt    time.Time `json:"removedAt"`
	Ended        bool      `json:"ended"`
	Winner       string    `json:"winner,omitempty"`
}

// BackupFromModel converts a model.BackupTournament
func BackupFromModel(b *model.BackupTournament) Backup {
	return Backup{
		ID:           b.ID,
		TournamentID: b.Tournament.ID,
		Title:        b.Tournament.Data.Title,
		RemovedAt:    b.RemovedAt,
		Ended:        b.Tournament.Ended,
		Winner:       b.Tournament.Data.Winner,
	}
}

// BackupList is the response for listing backups
type BackupList struct {
	Backups []Backup `json:"backups"`
}

// BackupListFromModel converts a list of backups
func BackupListFromModel(backups []*model.BackupTournament) BackupList {
	out := make([]Backup, len(backups))
	for i, b := range backups {
		out[i] = BackupFromModel(b)
	}
	return BackupList{Backups: out}
}
