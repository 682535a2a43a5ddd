package tournament

import (
	"github.com/mcoot/tourney/internal/model"
)

func (s *ControllerSuite) TestUpdateSettingsFormatChangeReseeds() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C")
	s.win(t.ID, "A")
	before := s.load(t.ID)

	settings := t.Data.Settings
	settings.Format = model.FormatRoundRobin
	t, err := s.controller.UpdateSettings(s.ctx, t.ID, settings)
	s.Require().NoError(err)

	s.Equal(model.StageRoundRobin, t.Data.BracketStage)
	s.Len(t.Data.CurrentMatches, 3)
	s.Empty(t.Data.CompletedMatches)
	s.Equal(model.PartitionRoundRobin, t.Data.Players["A"].Partition)
	s.True(s.controller.CanUndoReset(s.ctx, t.ID))

	restored, err := s.controller.UndoReset(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(before, restored)
}

func (s *ControllerSuite) TestUpdateSettingsPointsRebuildStandings() {
	t := s.start(model.FormatRoundRobin, "A", "B", "C")
	t = s.win(t.ID, "A")
	s.Equal(3, t.Data.Standings["A"].Points)

	settings := t.Data.Settings
	settings.RoundRobin.PointsPerWin = 2
	settings.RoundRobin.PointsPerLoss = 1
	t, err := s.controller.UpdateSettings(s.ctx, t.ID, settings)
	s.Require().NoError(err)

	s.Equal(2, t.Data.Standings["A"].Points)
	s.Equal(1, t.Data.Standings["B"].Points)
	s.Len(t.Data.CompletedMatches, 1)
	s.False(s.controller.CanUndoReset(s.ctx, t.ID))
}

func (s *ControllerSuite) TestUpdateSettingsValidates() {
	t := s.create(model.FormatSingleElimination, "A", "B")
	settings := t.Data.Settings
	settings.Format = "swiss"

	_, err := s.controller.UpdateSettings(s.ctx, t.ID, settings)
	s.ErrorIs(err, model.ErrInvalidFormat)
}

func (s *ControllerSuite) TestUpdateSettingsFormatChangeDuringReset() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	release, ok := s.controller.resets.TryLock(t.ID)
	s.Require().True(ok)
	defer release()

	settings := t.Data.Settings
	settings.Format = model.FormatDoubleElimination
	_, err := s.controller.UpdateSettings(s.ctx, t.ID, settings)
	s.ErrorIs(err, model.ErrResetInProgress)
	s.Equal(model.FormatSingleElimination, s.load(t.ID).Data.Settings.Format)
}

func (s *ControllerSuite) TestUpdateStylesMerges() {
	t, err := s.controller.CreateTournament(s.ctx, CreateParams{
		Title:  "Styled",
		Styles: map[string]string{"background": "black", "accent": "red"},
	})
	s.Require().NoError(err)

	t, err = s.controller.UpdateStyles(s.ctx, t.ID, map[string]string{"accent": "gold"})
	s.Require().NoError(err)

	s.Equal(map[string]string{"background": "black", "accent": "gold"}, t.Data.Styles)
	msg, _ := s.recorder.LastMessage()
	s.Equal("gold", msg.Config.Styles["accent"])
}

func (s *ControllerSuite) TestUpdatePosition() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	t, err := s.controller.UpdatePosition(s.ctx, t.ID, model.PositionTopLeft, &model.Coords{X: 10, Y: 20})
	s.Require().NoError(err)
	s.Equal(model.PositionTopLeft, t.Position)
	s.Equal(&model.Coords{X: 10, Y: 20}, t.CustomCoords)

	s.random.QueueIntn(8)
	t, err = s.controller.UpdatePosition(s.ctx, t.ID, model.PositionRandom, nil)
	s.Require().NoError(err)
	s.Equal(model.PositionBottomRight, t.Position)
	s.Nil(t.CustomCoords)
}

func (s *ControllerSuite) TestUpdateOverlayInstance() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	t, err := s.controller.UpdateOverlayInstance(s.ctx, t.ID, "main-stage")
	s.Require().NoError(err)
	s.Equal("main-stage", t.OverlayInstance)

	msg, _ := s.recorder.LastMessage()
	s.Equal("main-stage", msg.OverlayInstance)
}

func (s *ControllerSuite) TestSetVisibility() {
	t := s.create(model.FormatSingleElimination, "A", "B")

	t, err := s.controller.SetVisibility(s.ctx, t.ID, false)
	s.Require().NoError(err)
	s.True(t.Hidden)
	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayHide, msg.Type)

	t, err = s.controller.SetVisibility(s.ctx, t.ID, true)
	s.Require().NoError(err)
	s.False(t.Hidden)
	msg, _ = s.recorder.LastMessage()
	s.Equal(model.DisplayShow, msg.Type)
}
