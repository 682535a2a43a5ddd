package tournament

import (
	"fmt"
	"math"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("P%02d", i+1)
	}
	return out
}

// playOut resolves open matches in order until the tournament ends.
// pick chooses the outcome for each match.
func (s *ControllerSuite) playOut(id string, pick func(m *model.Match) model.Outcome) *model.TournamentState {
	t := s.load(id)
	for i := 0; !t.Ended; i++ {
		s.Require().Less(i, 500, "tournament did not finish")
		s.Require().NotEmpty(t.Data.CurrentMatches, "bracket stalled")
		m := t.Data.CurrentMatches[0]
		var err error
		t, err = s.controller.SetMatchWinner(s.ctx, id, m.ID, pick(m), nil)
		s.Require().NoError(err)
	}
	return t
}

func alwaysPlayer1(*model.Match) model.Outcome { return model.OutcomePlayer1 }

// Single elimination tests

func (s *ControllerSuite) TestSingleEliminationFourPlayers() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")

	s.win(t.ID, "A")
	t = s.win(t.ID, "B")

	s.Equal(2, t.Data.WinnersRound)
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))
	s.Equal(2, t.Data.CurrentMatches[0].Round)
	s.True(t.Data.Players["D"].Eliminated())
	s.True(t.Data.Players["C"].Eliminated())

	t = s.win(t.ID, "A")

	s.Equal("A", t.Data.Winner)
	s.True(t.Ended)
	s.False(t.ManuallyEnded)
	s.Empty(t.Data.CurrentMatches)
	s.Len(t.Data.CompletedMatches, 3)
	s.Equal(2, t.Data.Players["A"].Wins)
	s.Equal(1, t.Data.Players["B"].Losses)
}

func (s *ControllerSuite) TestSingleEliminationOddFieldGivesMiddleSeedABye() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D", "E")

	s.Equal([][2]string{{"A", "E"}, {"B", "D"}}, pairings(t.Data.CurrentMatches))
	s.Equal(model.PartitionWinners, t.Data.Players["C"].Partition)

	s.win(t.ID, "A")
	t = s.win(t.ID, "B")

	// A, B and C remain: A plays B, C waits for the next round
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))
	s.Equal(model.PartitionWinners, t.Data.Players["C"].Partition)
}

func (s *ControllerSuite) TestSingleEliminationRoundCount() {
	for n := 2; n <= 17; n++ {
		s.SetupTest()
		t := s.start(model.FormatSingleElimination, names(n)...)
		t = s.playOut(t.ID, alwaysPlayer1)

		rounds := map[int]bool{}
		for _, m := range t.Data.CompletedMatches {
			rounds[m.Round] = true
		}
		expected := int(math.Ceil(math.Log2(float64(n))))
		s.Len(rounds, expected, "players=%d", n)
		s.Equal(n-1, len(t.Data.CompletedMatches), "players=%d", n)
		s.NotEmpty(t.Data.Winner, "players=%d", n)
		s.Len(t.Data.PlayersIn(model.PartitionEliminated), n-1, "players=%d", n)
	}
}

// Double elimination tests

func (s *ControllerSuite) TestDoubleEliminationTrueFinal() {
	t := s.start(model.FormatDoubleElimination, "A", "B", "C", "D")

	s.win(t.ID, "A")
	t = s.win(t.ID, "B")
	s.Equal(model.PartitionLosers, t.Data.Players["C"].Partition)
	s.Equal(model.PartitionLosers, t.Data.Players["D"].Partition)
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))

	t = s.win(t.ID, "A")
	s.Equal(model.StageLosers, t.Data.BracketStage)
	// D dropped first, then C; B dropped in round 2 and waits
	s.Equal([][2]string{{"D", "C"}}, pairings(t.Data.CurrentMatches))
	s.Equal(1, t.Data.LosersRound)

	t = s.win(t.ID, "D")
	s.True(t.Data.Players["C"].Eliminated())
	s.Equal([][2]string{{"D", "B"}}, pairings(t.Data.CurrentMatches))
	s.Equal(2, t.Data.LosersRound)

	t = s.win(t.ID, "B")
	s.Equal(model.StageFinal, t.Data.BracketStage)
	s.Require().Len(t.Data.CurrentMatches, 1)
	final := t.Data.CurrentMatches[0]
	s.Equal(model.BracketFinal, final.Bracket)
	s.Equal([2]string{"A", "B"}, [2]string{final.Player1, final.Player2})
	s.Contains(final.ID, "-final1")

	// The losers-bracket finalist wins the first final
	t = s.win(t.ID, "B")
	s.False(t.Ended)
	s.True(t.Data.RequireTrueFinal)
	s.True(t.Data.TrueFinalPlayed)
	s.Require().Len(t.Data.CurrentMatches, 1)
	trueFinal := t.Data.CurrentMatches[0]
	s.Equal(2, trueFinal.Round)
	s.Contains(trueFinal.ID, "-final2")
	s.True(trueFinal.Involves("A"))
	s.True(trueFinal.Involves("B"))
	s.Equal(1, t.Data.Players["A"].Losses)
	s.False(t.Data.Players["A"].Eliminated())

	t = s.win(t.ID, "A")
	s.True(t.Ended)
	s.Equal("A", t.Data.Winner)
	s.True(t.Data.Players["B"].Eliminated())
	s.Equal(2, t.Data.Players["B"].Losses)
}

func (s *ControllerSuite) TestDoubleEliminationUnbeatenFinalistWinsOutright() {
	t := s.start(model.FormatDoubleElimination, "A", "B")

	t = s.win(t.ID, "A")
	s.Equal(model.StageFinal, t.Data.BracketStage)
	s.Equal([][2]string{{"A", "B"}}, pairings(t.Data.CurrentMatches))

	t = s.win(t.ID, "A")
	s.True(t.Ended)
	s.Equal("A", t.Data.Winner)
	s.False(t.Data.RequireTrueFinal)
	s.True(t.Data.Players["B"].Eliminated())
}

func (s *ControllerSuite) TestDoubleEliminationNeverEliminatesUnbeatenPlayers() {
	patterns := map[string]func(m *model.Match) model.Outcome{
		"player1": alwaysPlayer1,
		"player2": func(*model.Match) model.Outcome { return model.OutcomePlayer2 },
		"alternate": func(m *model.Match) model.Outcome {
			if m.MatchNumber%2 == 0 {
				return model.OutcomePlayer2
			}
			return model.OutcomePlayer1
		},
	}

	for name, pick := range patterns {
		for n := 2; n <= 12; n++ {
			s.SetupTest()
			t := s.start(model.FormatDoubleElimination, names(n)...)

			for i := 0; !t.Ended; i++ {
				s.Require().Less(i, 500, "%s players=%d did not finish", name, n)
				s.Require().NotEmpty(t.Data.CurrentMatches, "%s players=%d stalled", name, n)
				var err error
				m := t.Data.CurrentMatches[0]
				t, err = s.controller.SetMatchWinner(s.ctx, t.ID, m.ID, pick(m), nil)
				s.Require().NoError(err)

				for _, p := range t.Data.PlayersIn(model.PartitionEliminated) {
					s.Equal(2, p.Losses, "%s players=%d %s eliminated with %d losses", name, n, p.Name, p.Losses)
				}
			}
			s.NotEmpty(t.Data.Winner, "%s players=%d", name, n)
			s.Len(t.Data.PlayersIn(model.PartitionEliminated), n-1, "%s players=%d", name, n)
		}
	}
}

// Round robin tests

func (s *ControllerSuite) TestRoundRobinGeneratesEveryPairOnce() {
	for n := 2; n <= 8; n++ {
		s.SetupTest()
		t := s.start(model.FormatRoundRobin, names(n)...)

		s.Len(t.Data.CurrentMatches, n*(n-1)/2, "players=%d", n)
		seen := map[[2]string]bool{}
		for _, m := range t.Data.CurrentMatches {
			s.Equal(model.BracketRoundRobin, m.Bracket)
			s.Equal(1, m.Round)
			key := [2]string{m.Player1, m.Player2}
			if m.Player2 < m.Player1 {
				key = [2]string{m.Player2, m.Player1}
			}
			s.False(seen[key], "pair %v generated twice", key)
			seen[key] = true
		}
		s.Len(t.Data.Standings, n)
	}
}

func (s *ControllerSuite) TestRoundRobinPlaysToCompletion() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C", "D")
	t = s.playOut(t.ID, alwaysPlayer1)

	s.True(t.Ended)
	// A beats everyone as player 1 of every pairing it appears in
	s.Equal("A", t.Data.Winner)

	total := 0
	for _, st := range t.Data.Standings {
		total += st.Points
		s.Equal(3, st.Played)
	}
	s.Equal(6*3, total)
	s.Equal(9, t.Data.Standings["A"].Points)
	s.Equal(0, t.Data.Standings["D"].Points)
}

func (s *ControllerSuite) TestRoundRobinTieGoesToEarlierSeed() {
	settings := model.DefaultSettings()
	settings.Format = model.FormatRoundRobin
	settings.RoundRobin.AllowDraws = true
	t, err := s.controller.CreateTournament(s.ctx, CreateParams{Title: "Draw Cup", Players: []string{"A", "B"}, Settings: &settings})
	s.Require().NoError(err)
	t, err = s.controller.StartTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	t, err = s.controller.SetMatchWinner(s.ctx, t.ID, t.Data.CurrentMatches[0].ID, model.OutcomeDraw, model.BothAdvance)
	s.Require().NoError(err)

	s.True(t.Ended)
	s.Equal(1, t.Data.Standings["A"].Points)
	s.Equal(1, t.Data.Standings["B"].Points)
	s.Equal("A", t.Data.Winner)
}

// Termination tests

func (s *ControllerSuite) TestNaturalEndEmitsEventAndRetractsDisplayLater() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	s.clock.Advance(90 * time.Second)

	t = s.win(t.ID, "A")

	ended := s.recorder.EventsOfType(model.EventTournamentEnded)
	s.Require().Len(ended, 1)
	payload := ended[0].Payload.(model.TournamentEndedPayload)
	s.Equal("A", payload.Winner)
	s.Equal(1, payload.MatchesPlayed)
	s.Equal(int64(90), payload.Duration)

	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayUpdate, msg.Type)
	s.True(msg.Config.Ended)

	s.clock.Advance(29 * time.Second)
	msg, _ = s.recorder.LastMessage()
	s.Equal(model.DisplayUpdate, msg.Type)

	s.clock.Advance(time.Second)
	msg, _ = s.recorder.LastMessage()
	s.Equal(model.DisplayRemove, msg.Type)
	s.Equal(t.ID, msg.Config.TournamentID)
}

func (s *ControllerSuite) TestRetractionUsesConfiguredDisplayDuration() {
	settings := model.DefaultSettings()
	settings.Format = model.FormatSingleElimination
	settings.DisplayDuration = 5
	t, err := s.controller.CreateTournament(s.ctx, CreateParams{Title: "Quick", Players: []string{"A", "B"}, Settings: &settings})
	s.Require().NoError(err)
	_, err = s.controller.StartTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	s.win(t.ID, "A")
	s.clock.Advance(5 * time.Second)

	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayRemove, msg.Type)
}

func (s *ControllerSuite) TestRetractionSkipsRecreatedTournament() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	s.win(t.ID, "A")

	s.create(model.FormatSingleElimination, "C", "D")
	s.recorder.Clear()

	s.clock.Advance(time.Minute)

	for _, msg := range s.recorder.Messages() {
		s.NotEqual(model.DisplayRemove, msg.Type)
	}
}

func (s *ControllerSuite) TestRetractionSkipsDeletedTournament() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	s.win(t.ID, "A")
	s.Require().NoError(s.storage.DeleteTournament(s.ctx, t.ID))
	s.recorder.Clear()

	s.clock.Advance(time.Minute)

	s.Empty(s.recorder.Messages())
}

func (s *ControllerSuite) TestStopTournamentRetractsImmediately() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	s.recorder.Clear()

	t, err := s.controller.StopTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	s.True(t.Ended)
	s.True(t.ManuallyEnded)
	s.Empty(t.Data.Winner)
	s.Empty(s.recorder.EventsOfType(model.EventTournamentEnded))

	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayRemove, msg.Type)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *ControllerSuite) TestEndTournamentTwiceIsNoOp() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.win(t.ID, "C")

	ended, err := s.controller.EndTournament(s.ctx, t.ID, false)
	s.Require().NoError(err)
	s.Equal("C", ended.Data.Winner)
	s.recorder.Clear()

	again, err := s.controller.StopTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.True(again.Ended)
	s.False(again.ManuallyEnded)
	s.Equal("C", again.Data.Winner)
	s.True(ended.UpdatedAt.Equal(again.UpdatedAt))
	s.Empty(s.recorder.Events())
	s.Empty(s.recorder.Messages())
}

func (s *ControllerSuite) TestStopRoundRobinDoesNotPickWinner() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.win(t.ID, "A")

	t, err := s.controller.StopTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Empty(t.Data.Winner)
}

func (s *ControllerSuite) TestEndTournamentNaturallyPicksRoundRobinLeader() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.win(t.ID, "C")

	t, err := s.controller.EndTournament(s.ctx, t.ID, false)
	s.Require().NoError(err)
	s.Equal("C", t.Data.Winner)
	s.Len(s.recorder.EventsOfType(model.EventTournamentEnded), 1)
}

func (s *ControllerSuite) TestResultRejectedAfterEnd() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	m := t.Data.CurrentMatches[0]
	_, err := s.controller.StopTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	_, err = s.controller.SetMatchWinner(s.ctx, t.ID, m.ID, model.OutcomePlayer1, nil)
	s.ErrorIs(err, model.ErrTournamentEnded)
}
