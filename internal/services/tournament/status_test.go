package tournament

import (
	"github.com/mcoot/tourney/internal/model"
)

func (s *ControllerSuite) TestStatusTextSingleElimination() {
	t := s.start(model.FormatSingleElimination, names(16)...)
	s.Equal("Single Elimination - Round 1", StatusText(t))

	s.SetupTest()
	t = s.start(model.FormatSingleElimination, names(8)...)
	s.Equal("Single Elimination - Quarterfinals", StatusText(t))

	s.SetupTest()
	t = s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	s.Equal("Single Elimination - Semifinals", StatusText(t))

	s.win(t.ID, "A")
	t = s.win(t.ID, "B")
	s.Equal("Single Elimination - Finals", StatusText(t))

	t = s.win(t.ID, "A")
	s.Equal("Tournament Complete", StatusText(t))
}

func (s *ControllerSuite) TestStatusTextDoubleElimination() {
	t := s.start(model.FormatDoubleElimination, names(16)...)
	s.Equal("Main Bracket - First Round", StatusText(t))

	s.SetupTest()
	t = s.start(model.FormatDoubleElimination, "A", "B", "C", "D")
	s.Equal("Main Bracket - Semifinals", StatusText(t))

	s.win(t.ID, "A")
	s.win(t.ID, "B")
	t = s.win(t.ID, "A")
	s.Equal("Redemption Bracket - Semifinals", StatusText(t))

	s.win(t.ID, "D")
	t = s.win(t.ID, "B")
	s.Equal("Tournament Finals - Match 1", StatusText(t))

	t = s.win(t.ID, "B")
	s.Equal("Tournament Finals - True Final", StatusText(t))

	t = s.win(t.ID, "B")
	s.Equal("Tournament Complete", StatusText(t))
}

func (s *ControllerSuite) TestStatusTextRoundRobin() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	s.Equal("Round Robin - 0/3 Matches Complete", StatusText(t))

	t = s.win(t.ID, "B")
	s.Equal("Round Robin - 1/3 Matches Complete", StatusText(t))
}

func (s *ControllerSuite) TestStatusDelegates() {
	t := s.start(model.FormatRoundRobin, "A", "B")

	status, err := s.controller.Status(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal("Round Robin - 0/1 Matches Complete", status)
}
