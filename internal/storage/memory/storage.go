package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	tournaments map[string]*model.TournamentState
	backups     map[string]*model.BackupTournament
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		tournaments: make(map[string]*model.TournamentState),
		backups:     make(map[string]*model.BackupTournament),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Tournament operations

func (s *Storage) SaveTournament(ctx context.Context, t *model.TournamentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = t.Clone()
	return nil
}

func (s *Storage) GetTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, model.ErrTournamentNotFound
	}
	return t.Clone(), nil
}

func (s *Storage) DeleteTournament(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tournaments, id)
	return nil
}

func (s *Storage) TournamentExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tournaments[id]
	return ok, nil
}

func (s *Storage) ListTournaments(ctx context.Context) ([]*model.TournamentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.TournamentState, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Backup operations

func (s *Storage) SaveBackup(ctx context.Context, b *model.BackupTournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups[b.ID] = b.Clone()
	return nil
}

func (s *Storage) GetBackup(ctx context.Context, id string) (*model.BackupTournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.backups[id]
	if !ok {
		return nil, model.ErrBackupNotFound
	}
	return b.Clone(), nil
}

func (s *Storage) DeleteBackup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.backups, id)
	return nil
}

func (s *Storage) ListBackups(ctx context.Context) ([]*model.BackupTournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.BackupTournament, 0, len(s.backups))
	for _, b := range s.backups {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
