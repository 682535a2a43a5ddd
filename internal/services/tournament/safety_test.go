package tournament

import (
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// Reset tests

func (s *ControllerSuite) TestResetThenUndoRestoresState() {
	t := s.start(model.FormatDoubleElimination, "A", "B", "C", "D")
	s.win(t.ID, "A")
	before := s.load(t.ID)

	s.random.QueueIntn(1, 1, 0)
	reset, err := s.controller.ResetWithUndo(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Empty(reset.Data.CompletedMatches)
	s.Len(reset.Data.CurrentMatches, 2)
	s.True(s.controller.CanUndoReset(s.ctx, t.ID))

	msg, _ := s.recorder.LastMessage()
	s.True(msg.Config.IsResetting)

	s.clock.Advance(10 * time.Second)
	restored, err := s.controller.UndoReset(s.ctx, t.ID)
	s.Require().NoError(err)

	s.Equal(before, restored)
	s.Equal(before, s.load(t.ID))
	s.False(s.controller.CanUndoReset(s.ctx, t.ID))

	_, err = s.controller.UndoReset(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrCannotUndo)
}

func (s *ControllerSuite) TestUndoFailsAfterWindow() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	_, err := s.controller.ResetWithUndo(s.ctx, t.ID)
	s.Require().NoError(err)

	s.clock.Advance(30 * time.Second)

	s.False(s.controller.CanUndoReset(s.ctx, t.ID))
	_, err = s.controller.UndoReset(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrCannotUndo)
}

func (s *ControllerSuite) TestUndoWithoutReset() {
	t := s.start(model.FormatSingleElimination, "A", "B")

	_, err := s.controller.UndoReset(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrCannotUndo)
}

func (s *ControllerSuite) TestSecondResetReplacesSnapshot() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	_, err := s.controller.ResetWithUndo(s.ctx, t.ID)
	s.Require().NoError(err)

	s.clock.Advance(20 * time.Second)
	s.win(t.ID, "A")
	afterWin := s.load(t.ID)
	_, err = s.controller.ResetWithUndo(s.ctx, t.ID)
	s.Require().NoError(err)

	// The first snapshot's expiry must not remove the second one
	s.clock.Advance(15 * time.Second)
	s.True(s.controller.CanUndoReset(s.ctx, t.ID))

	restored, err := s.controller.UndoReset(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(afterWin, restored)
}

func (s *ControllerSuite) TestResetRejectedWhileResetInProgress() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	release, ok := s.controller.resets.TryLock(t.ID)
	s.Require().True(ok)

	_, err := s.controller.ResetWithUndo(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrResetInProgress)
	_, err = s.controller.UndoReset(s.ctx, t.ID)
	s.ErrorIs(err, model.ErrResetInProgress)

	release()
	_, err = s.controller.ResetWithUndo(s.ctx, t.ID)
	s.NoError(err)
}

func (s *ControllerSuite) TestResetUnknownTournament() {
	_, err := s.controller.ResetWithUndo(s.ctx, "tournament_missing")
	s.ErrorIs(err, model.ErrTournamentNotFound)
	s.False(s.controller.resets.Held("tournament_missing"))
}

func (s *ControllerSuite) TestResetSeatsBenchPlayers() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	t, err := s.controller.AddPlayer(s.ctx, t.ID, "C")
	s.Require().NoError(err)
	s.Equal(model.PartitionBench, t.Data.Players["C"].Partition)

	t, err = s.controller.ResetWithUndo(s.ctx, t.ID)
	s.Require().NoError(err)
	s.NotEqual(model.PartitionBench, t.Data.Players["C"].Partition)
	s.Equal(model.PartitionInMatch, t.Data.Players["C"].Partition)
	s.Equal(model.PartitionWinners, t.Data.Players["B"].Partition)
	s.Equal(3, t.Data.InitialPlayerCount)
}

// Backup tests

func (s *ControllerSuite) TestRemoveAndRestoreTournament() {
	t := s.start(model.FormatSingleElimination, "A", "B", "C", "D")
	s.win(t.ID, "A")
	before := s.load(t.ID)
	s.recorder.Clear()

	backup, err := s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Contains(backup.ID, t.ID+"::backup::")

	exists, err := s.controller.TournamentExists(s.ctx, t.ID)
	s.Require().NoError(err)
	s.False(exists)
	msg, _ := s.recorder.LastMessage()
	s.Equal(model.DisplayRemove, msg.Type)

	s.clock.Advance(time.Minute)
	restored, err := s.controller.RestoreBackup(s.ctx, backup.ID, false)
	s.Require().NoError(err)

	s.Equal(t.ID, restored.ID)
	s.Equal(before.UUID, restored.UUID)
	s.Equal(before.Data, restored.Data)

	backups, err := s.controller.ListBackups(s.ctx)
	s.Require().NoError(err)
	s.Empty(backups)
}

func (s *ControllerSuite) TestRestoreRefusesToOverwrite() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	backup, err := s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.create(model.FormatSingleElimination, "X", "Y")

	_, err = s.controller.RestoreBackup(s.ctx, backup.ID, false)
	s.ErrorIs(err, model.ErrTournamentExists)

	restored, err := s.controller.RestoreBackup(s.ctx, backup.ID, true)
	s.Require().NoError(err)
	s.Contains(restored.Data.Players, "A")
	s.NotContains(restored.Data.Players, "X")
}

func (s *ControllerSuite) TestRestoreByTournamentIDPicksNewestBackup() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	_, err := s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	s.create(model.FormatSingleElimination, "C", "D")
	_, err = s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	restored, err := s.controller.RestoreBackup(s.ctx, t.ID, false)
	s.Require().NoError(err)
	s.Contains(restored.Data.Players, "C")

	backups, err := s.controller.ListBackups(s.ctx)
	s.Require().NoError(err)
	s.Len(backups, 1)
}

func (s *ControllerSuite) TestRestoreUnknownBackup() {
	_, err := s.controller.RestoreBackup(s.ctx, "tournament_missing", false)
	s.ErrorIs(err, model.ErrBackupNotFound)

	_, err = s.controller.RestoreBackup(s.ctx, "tournament_missing::backup::1", false)
	s.ErrorIs(err, model.ErrBackupNotFound)
}

func (s *ControllerSuite) TestRemoveBackup() {
	t := s.start(model.FormatSingleElimination, "A", "B")
	backup, err := s.controller.RemoveTournament(s.ctx, t.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RemoveBackup(s.ctx, backup.ID))
	s.ErrorIs(s.controller.RemoveBackup(s.ctx, backup.ID), model.ErrBackupNotFound)
}
