package tournament

import (
	"github.com/mcoot/tourney/internal/model"
)

func (s *ControllerSuite) TestAddPlayerBeforeStart() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	t, err := s.controller.AddPlayer(s.ctx, t.ID, "  C  ")
	s.Require().NoError(err)

	p := t.Data.Players["C"]
	s.Require().NotNil(p)
	s.Equal(3, p.Seed)
	s.Equal(model.PartitionWinners, p.Partition)
}

func (s *ControllerSuite) TestAddPlayerRoundRobinPool() {
	t := s.create(model.FormatRoundRobin, "A", "B")

	t, err := s.controller.AddPlayer(s.ctx, t.ID, "C")
	s.Require().NoError(err)
	s.Equal(model.PartitionRoundRobin, t.Data.Players["C"].Partition)
}

func (s *ControllerSuite) TestAddPlayerValidation() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	_, err := s.controller.AddPlayer(s.ctx, t.ID, "   ")
	s.ErrorIs(err, model.ErrInvalidPlayerName)

	_, err = s.controller.AddPlayer(s.ctx, t.ID, "A")
	s.ErrorIs(err, model.ErrPlayerExists)

	_, err = s.controller.AddPlayer(s.ctx, "tournament_missing", "Z")
	s.ErrorIs(err, model.ErrTournamentNotFound)
}

func (s *ControllerSuite) TestAddPlayerDuringPlayWaitsOnBench() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")

	t, err := s.controller.AddPlayer(s.ctx, t.ID, "E")
	s.Require().NoError(err)
	s.Equal(model.PartitionBench, t.Data.Players["E"].Partition)

	// Bench players are never paired
	s.win(t.ID, "A")
	t = s.win(t.ID, "B")
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))
}

func (s *ControllerSuite) TestRemovePlayer() {
	t := s.create(model.FormatSingleElimination, "A", "B", "C")

	t, err := s.controller.RemovePlayer(s.ctx, t.ID, "B")
	s.Require().NoError(err)
	s.NotContains(t.Data.Players, "B")

	_, err = s.controller.RemovePlayer(s.ctx, t.ID, "B")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestRemovePlayerInBracketRejected() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	t, err := s.controller.AddPlayer(s.ctx, t.ID, "C")
	s.Require().NoError(err)

	_, err = s.controller.RemovePlayer(s.ctx, t.ID, "A")
	s.ErrorIs(err, model.ErrTournamentInProgress)

	t, err = s.controller.RemovePlayer(s.ctx, t.ID, "C")
	s.Require().NoError(err)
	s.NotContains(t.Data.Players, "C")
}

func (s *ControllerSuite) TestReplacePlayerRenamesEverywhere() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.win(t.ID, "A")

	t, err := s.controller.ReplacePlayer(s.ctx, t.ID, "A", "Alice")
	s.Require().NoError(err)

	s.NotContains(t.Data.Players, "A")
	p := t.Data.Players["Alice"]
	s.Require().NotNil(p)
	s.Equal("Alice", p.Name)
	s.Equal(1, p.Seed)
	s.Equal(1, p.Wins)

	s.Equal("Alice", t.Data.CompletedMatches[0].Winner)
	s.Equal("Alice", t.Data.CompletedMatches[0].Player1)
	for _, m := range t.Data.CurrentMatches {
		s.NotEqual("A", m.Player1)
		s.NotEqual("A", m.Player2)
	}
	s.Contains(t.Data.Standings, "Alice")
	s.NotContains(t.Data.Standings, "A")
	s.Equal(3, t.Data.Standings["Alice"].Points)
}

func (s *ControllerSuite) TestReplacePlayerValidation() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	_, err := s.controller.ReplacePlayer(s.ctx, t.ID, "A", "")
	s.ErrorIs(err, model.ErrInvalidPlayerName)

	_, err = s.controller.ReplacePlayer(s.ctx, t.ID, "Z", "Y")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.controller.ReplacePlayer(s.ctx, t.ID, "A", "B")
	s.ErrorIs(err, model.ErrPlayerExists)
}
