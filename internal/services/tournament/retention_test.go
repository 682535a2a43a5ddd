package tournament

import (
	"context"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

func (s *ControllerSuite) TestCleanupOldBackups() {
	old := s.start(model.FormatSingleElimination, "A", "B")
	_, err := s.controller.RemoveTournament(s.ctx, old.ID)
	s.Require().NoError(err)

	s.clock.Advance(6 * 24 * time.Hour)
	recent, err := s.controller.CreateTournament(s.ctx, CreateParams{Title: "Recent"})
	s.Require().NoError(err)
	_, err = s.controller.RemoveTournament(s.ctx, recent.ID)
	s.Require().NoError(err)

	s.clock.Advance(2 * 24 * time.Hour)
	result, err := s.controller.CleanupOldBackups(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.BackupsRemoved)

	backups, err := s.controller.ListBackups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(backups, 1)
	s.Equal("Recent", backups[0].Tournament.Data.Title)

	again, err := s.controller.CleanupOldBackups(s.ctx)
	s.Require().NoError(err)
	s.Equal(CleanupResult{}, again)
}

func (s *ControllerSuite) TestCleanupRemovesStaleEndedTournaments() {
	ended := s.start(model.FormatSingleElimination, "A", "B")
	s.win(ended.ID, "A")
	active, err := s.controller.CreateTournament(s.ctx, CreateParams{Title: "Still Going", Players: []string{"C", "D"}})
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)
	result, err := s.controller.CleanupOldBackups(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.TournamentsRemoved)

	exists, err := s.controller.TournamentExists(s.ctx, ended.ID)
	s.Require().NoError(err)
	s.False(exists)
	exists, err = s.controller.TournamentExists(s.ctx, active.ID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ControllerSuite) TestCleanupKeepsRecentlyEndedTournaments() {
	ended := s.start(model.FormatSingleElimination, "A", "B")
	s.win(ended.ID, "A")

	s.clock.Advance(24 * time.Hour)
	result, err := s.controller.CleanupOldBackups(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.TournamentsRemoved)
}

func (s *ControllerSuite) TestRunRetentionStopsWithContext() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	_, err := s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.clock.Advance(8 * 24 * time.Hour)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.controller.RunRetention(ctx, time.Hour)
	}()

	s.Eventually(func() bool {
		backups, err := s.controller.ListBackups(s.ctx)
		return err == nil && len(backups) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("retention loop did not stop")
	}
}
