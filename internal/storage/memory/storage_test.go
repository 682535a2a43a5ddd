package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tourney/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newTournament(id string) *model.TournamentState {
	return &model.TournamentState{
		ID:   id,
		UUID: "uuid-" + id,
		Data: model.TournamentData{
			Title: "Friday Cup",
			Players: map[string]*model.Player{
				"Alice": {Name: "Alice", Seed: 1, Partition: model.PartitionWinners},
			},
			Settings: model.DefaultSettings(),
		},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Tournament tests

func (s *StorageSuite) TestSaveAndGetTournament() {
	t := newTournament("tournament_friday")

	err := s.storage.SaveTournament(s.ctx, t)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetTournament(s.ctx, "tournament_friday")
	s.Require().NoError(err)
	s.Equal(t, retrieved)
}

func (s *StorageSuite) TestGetTournamentNotFound() {
	_, err := s.storage.GetTournament(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrTournamentNotFound)
}

func (s *StorageSuite) TestSavedTournamentIsIsolatedFromCaller() {
	t := newTournament("tournament_friday")
	_ = s.storage.SaveTournament(s.ctx, t)

	t.Data.Players["Alice"].Wins = 5

	retrieved, err := s.storage.GetTournament(s.ctx, "tournament_friday")
	s.Require().NoError(err)
	s.Equal(0, retrieved.Data.Players["Alice"].Wins)

	retrieved.Data.Title = "changed"
	again, _ := s.storage.GetTournament(s.ctx, "tournament_friday")
	s.Equal("Friday Cup", again.Data.Title)
}

func (s *StorageSuite) TestDeleteTournament() {
	_ = s.storage.SaveTournament(s.ctx, newTournament("tournament_friday"))

	err := s.storage.DeleteTournament(s.ctx, "tournament_friday")
	s.Require().NoError(err)

	exists, err := s.storage.TournamentExists(s.ctx, "tournament_friday")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListTournaments() {
	_ = s.storage.SaveTournament(s.ctx, newTournament("tournament_b"))
	_ = s.storage.SaveTournament(s.ctx, newTournament("tournament_a"))

	list, err := s.storage.ListTournaments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("tournament_a", list[0].ID)
	s.Equal("tournament_b", list[1].ID)
}

// Backup tests

func (s *StorageSuite) TestSaveAndGetBackup() {
	b := &model.BackupTournament{
		ID:         "tournament_friday::backup::1704110400000",
		RemovedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Tournament: *newTournament("tournament_friday"),
	}

	err := s.storage.SaveBackup(s.ctx, b)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetBackup(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(b, retrieved)

	list, err := s.storage.ListBackups(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *StorageSuite) TestDeleteBackup() {
	b := &model.BackupTournament{ID: "x::backup::1", Tournament: *newTournament("x")}
	_ = s.storage.SaveBackup(s.ctx, b)

	s.Require().NoError(s.storage.DeleteBackup(s.ctx, b.ID))

	_, err := s.storage.GetBackup(s.ctx, b.ID)
	s.ErrorIs(err, model.ErrBackupNotFound)
}
