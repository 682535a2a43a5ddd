package storage

import (
	"context"

	"github.com/mcoot/tourney/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations read and write each document atomically.
type Storage interface {
	// Tournament operations
	SaveTournament(ctx context.Context, t *model.TournamentState) error
	GetTournament(ctx context.Context, id string) (*model.TournamentState, error)
	DeleteTournament(ctx context.Context, id string) error
	TournamentExists(ctx context.Context, id string) (bool, error)
	ListTournaments(ctx context.Context) ([]*model.TournamentState, error)

	// Backup operations
	SaveBackup(ctx context.Context, b *model.BackupTournament) error
	GetBackup(ctx context.Context, id string) (*model.BackupTournament, error)
	DeleteBackup(ctx context.Context, id string) error
	ListBackups(ctx context.Context) ([]*model.BackupTournament, error)
}
