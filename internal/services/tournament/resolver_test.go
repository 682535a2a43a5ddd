package tournament

import (
	"github.com/mcoot/tourney/internal/model"
)

func (s *ControllerSuite) startWithSettings(settings model.Settings, players ...string) *model.TournamentState {
	t, err := s.controller.CreateTournament(s.ctx, CreateParams{Title: "Test Cup", Players: players, Settings: &settings})
	s.Require().NoError(err)
	t, err = s.controller.StartTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	return t
}

func (s *ControllerSuite) TestDecisiveResultEmitsMatchUpdate() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	s.recorder.Clear()

	t = s.win(t.ID, "D")

	updates := s.recorder.EventsOfType(model.EventMatchUpdated)
	s.Require().Len(updates, 1)
	payload := updates[0].Payload.(model.MatchUpdatedPayload)
	s.Equal(1, payload.MatchNumber)
	s.Equal("A", payload.Player1)
	s.Equal("D", payload.Player2)
	s.Equal("D", payload.Winner)
	s.Equal(model.StageWinners, payload.BracketStage)
	s.False(payload.IsDraw)
	s.Empty(payload.DrawHandling)

	s.Equal(1, t.Data.Players["D"].Wins)
	s.Equal(1, t.Data.Players["A"].Losses)
	s.True(t.Data.Players["A"].Eliminated())

	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayUpdate, msg.Type)
}

func (s *ControllerSuite) TestSetMatchWinnerUnknownMatch() {
	t := s.start(model.FormatSingleElimination, "A", "B")

	_, err := s.controller.SetMatchWinner(s.ctx, t.ID, "match-missing", model.OutcomePlayer1, nil)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestSetMatchWinnerRejectsInvalidOutcome() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	before := s.load(t.ID)

	_, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.Outcome(9), nil)
	s.ErrorIs(err, model.ErrInvalidOutcome)
	s.Equal(before, s.load(t.ID))
}

func (s *ControllerSuite) TestSetMatchWinnerByNumber() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")

	t, err := s.controller.SetMatchWinnerByNumber(s.ctx, t.ID, 2, model.OutcomePlayer2, nil)
	s.Require().NoError(err)
	s.Equal("C", t.Data.CompletedMatches[0].Winner)

	t, err = s.controller.SetMatchWinnerByNumber(s.ctx, t.ID, 0, model.OutcomePlayer1, nil)
	s.Require().NoError(err)
	s.Equal("A", t.Data.CompletedMatches[1].Winner)

	_, err = s.controller.SetMatchWinnerByNumber(s.ctx, t.ID, 99, model.OutcomePlayer1, nil)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestSetMatchWinnerByNumberWithoutOpenMatches() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	_, err := s.controller.SetMatchWinnerByNumber(s.ctx, t.ID, 0, model.OutcomePlayer1, nil)
	s.ErrorIs(err, model.ErrNoOpenMatch)
}

// Draw tests

func (s *ControllerSuite) TestRoundRobinDrawRejectedWhenNotAllowed() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	before := s.load(t.ID)
	s.recorder.Clear()

	for _, policy := range []model.DrawPolicy{nil, model.Replay, model.BothAdvance} {
		_, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, policy)
		s.ErrorIs(err, model.ErrDrawsNotAllowed)
	}

	s.Equal(before, s.load(t.ID))
	s.Empty(s.recorder.Events())
	s.Empty(s.recorder.Messages())
}

func (s *ControllerSuite) TestRoundRobinRandomDrawIgnoresAllowDraws() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.random.QueueIntn(1)

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.RandomWinner)
	s.Require().NoError(err)

	m := t.Data.CompletedMatches[0]
	s.Equal("B", m.Winner)
	s.True(m.ResolvedRandomly)
	s.Equal(3, t.Data.Standings["B"].Points)
}

func (s *ControllerSuite) TestReplayDrawKeepsMatchOpen() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	s.recorder.Clear()

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.Replay)
	s.Require().NoError(err)

	s.Require().Len(t.Data.CurrentMatches, 1)
	s.Empty(t.Data.CompletedMatches)
	m := t.Data.CurrentMatches[0]
	s.True(m.IsDraw)
	s.Empty(m.Winner)
	s.Equal(1, t.Data.Players["A"].Draws)
	s.Equal(1, t.Data.Players["B"].Draws)

	updates := s.recorder.EventsOfType(model.EventMatchUpdated)
	s.Require().Len(updates, 1)
	payload := updates[0].Payload.(model.MatchUpdatedPayload)
	s.True(payload.IsDraw)
	s.Equal("replay", payload.DrawHandling)

	// The rematch can then be decided
	t = s.win(t.ID, "B")
	s.Equal("B", t.Data.Winner)
	s.False(t.Data.CompletedMatches[0].IsDraw)
}

func (s *ControllerSuite) TestRoundRobinReplayDrawWhenAllowed() {
	settings := model.DefaultSettings()
	settings.Format = model.FormatRoundRobin
	settings.RoundRobin.AllowDraws = true
	t := s.startWithSettings(settings, "A", "B", "C")

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, nil)
	s.Require().NoError(err)

	s.Len(t.Data.CurrentMatches, 3)
	s.True(t.Data.CurrentMatches[0].IsDraw)
	s.Equal(0, t.Data.Standings["A"].Played)
}

func (s *ControllerSuite) TestRandomDrawProceedsAsDecisive() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	s.random.QueueIntn(1)

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.RandomWinner)
	s.Require().NoError(err)

	s.Require().Len(t.Data.CompletedMatches, 1)
	m := t.Data.CompletedMatches[0]
	s.Equal("D", m.Winner)
	s.True(m.ResolvedRandomly)
	s.False(m.IsDraw)
	s.True(t.Data.Players["A"].Eliminated())

	payload := s.recorder.EventsOfType(model.EventMatchUpdated)[0].Payload.(model.MatchUpdatedPayload)
	s.Equal("random", payload.DrawHandling)
	s.Equal("D", payload.Winner)
}

func (s *ControllerSuite) TestBothAdvanceFallsBackToReplayInSingleElimination() {
	t := s.start(model.FormatSingleElimination, "A", "B")

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.BothAdvance)
	s.Require().NoError(err)

	s.Len(t.Data.CurrentMatches, 1)
	s.Empty(t.Data.CompletedMatches)
	payload := s.recorder.EventsOfType(model.EventMatchUpdated)[0].Payload.(model.MatchUpdatedPayload)
	s.Equal("replay", payload.DrawHandling)
}

func (s *ControllerSuite) TestBothAdvanceInWinnersBracket() {
	t := s.start(model.FormatDoubleElimination, "A", "B", "C", "D")

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.BothAdvance)
	s.Require().NoError(err)

	s.Require().Len(t.Data.CompletedMatches, 1)
	s.True(t.Data.CompletedMatches[0].IsDraw)
	s.Equal(model.PartitionWinners, t.Data.Players["A"].Partition)
	s.Equal(model.PartitionWinners, t.Data.Players["D"].Partition)
	s.Equal(0, t.Data.Players["A"].Losses)
	s.Equal(0, t.Data.Players["D"].Losses)

	t = s.win(t.ID, "B")

	// A, B and D carry on in the winners bracket, C drops
	s.Equal(2, t.Data.WinnersRound)
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))
	s.Equal(model.PartitionWinners, t.Data.Players["D"].Partition)
	s.Equal(model.PartitionLosers, t.Data.Players["C"].Partition)
}

func (s *ControllerSuite) TestBothAdvanceInFinalSchedulesRematch() {
	t := s.start(model.FormatDoubleElimination, "A", "B")
	t = s.win(t.ID, "A")
	final := t.Data.CurrentMatches[0]
	s.Require().Equal(model.BracketFinal, final.Bracket)

	t, err := s.controller.SetMatchWinner(s.ctx, t.ID, final.ID, model.OutcomeDraw, model.BothAdvance)
	s.Require().NoError(err)

	s.False(t.Ended)
	s.Require().Len(t.Data.CurrentMatches, 1)
	rematch := t.Data.CurrentMatches[0]
	s.NotEqual(final.ID, rematch.ID)
	s.Equal(model.BracketFinal, rematch.Bracket)
	s.Equal(final.Round, rematch.Round)
	s.Equal([2]string{"A", "B"}, [2]string{rematch.Player1, rematch.Player2})
	s.True(t.Data.CompletedMatches[len(t.Data.CompletedMatches)-1].IsDraw)
	s.False(t.Data.RequireTrueFinal)

	t = s.win(t.ID, "A")
	s.True(t.Ended)
	s.Equal("A", t.Data.Winner)
}
