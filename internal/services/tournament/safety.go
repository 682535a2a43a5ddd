package tournament

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

type snapshot struct {
	state   *model.TournamentState
	takenAt time.Time
}

// snapshotStore keeps the pre-reset state of each tournament for a short window
type snapshotStore struct {
	mu    sync.Mutex
	items map[string]snapshot
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{items: make(map[string]snapshot)}
}

func (s *snapshotStore) put(id string, state *model.TournamentState, takenAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = snapshot{state: state, takenAt: takenAt}
}

func (s *snapshotStore) get(id string) (snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.items[id]
	return snap, ok
}

func (s *snapshotStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// deleteIf removes the snapshot only if it is the one taken at takenAt
func (s *snapshotStore) deleteIf(id string, takenAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.items[id]
	if !ok || !snap.takenAt.Equal(takenAt) {
		return false
	}
	delete(s.items, id)
	return true
}

// expire drops every snapshot older than window
func (s *snapshotStore) expire(now time.Time, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range s.items {
		if now.Sub(snap.takenAt) >= window {
			delete(s.items, id)
		}
	}
}

// ResetWithUndo reseeds the tournament and keeps the previous state so the
// reset can be undone for a short window
func (c *Controller) ResetWithUndo(ctx context.Context, id string) (*model.TournamentState, error) {
	release, ok := c.resets.TryLock(id)
	if !ok {
		c.logger.Warn("reset rejected, another reset is in progress",
			slog.String("tournament_id", id),
		)
		return nil, model.ErrResetInProgress
	}
	defer release()

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.resetWithUndoLocked(ctx, t, t.Clone()); err != nil {
		return nil, err
	}
	return t, nil
}

// resetWithUndoLocked resets t and records previous as the undo snapshot.
// The caller holds both the tournament lock and the reset lock.
func (c *Controller) resetWithUndoLocked(ctx context.Context, t *model.TournamentState, previous *model.TournamentState) error {
	c.resetState(t)

	msg := updateMessage(t)
	msg.Config.IsResetting = true
	out := &outbox{}
	out.push(msg)
	if err := c.commit(ctx, t, out); err != nil {
		return err
	}

	now := c.clock.Now()
	c.snapshots.expire(now, c.cfg.UndoWindow)
	c.snapshots.put(t.ID, previous, now)
	id := t.ID
	c.clock.AfterFunc(c.cfg.UndoWindow, func() {
		if c.snapshots.deleteIf(id, now) {
			c.logger.Debug("undo snapshot expired", slog.String("tournament_id", id))
		}
	})

	c.logger.Info("tournament reset",
		slog.String("tournament_id", t.ID),
		slog.Int("player_count", len(t.Data.Players)),
	)
	return nil
}

// resetState reshuffles every registered player into fresh records and
// regenerates the opening matches
func (c *Controller) resetState(t *model.TournamentState) {
	d := &t.Data
	names := d.PlayerNames()
	for i := 0; i < len(names)-1; i++ {
		j := i + c.random.Intn(len(names)-i)
		names[i], names[j] = names[j], names[i]
	}

	partition := model.PartitionWinners
	if d.Settings.Format == model.FormatRoundRobin {
		partition = model.PartitionRoundRobin
	}
	d.Players = make(map[string]*model.Player, len(names))
	for i, name := range names {
		d.Players[name] = &model.Player{Name: name, Seed: i + 1, Partition: partition}
	}

	d.CurrentMatches = nil
	d.CompletedMatches = nil
	d.MatchCounter = 0
	d.WinnersRound = 1
	d.LosersRound = 1
	d.BracketStage = initialStage(d.Settings.Format)
	d.Winner = ""
	d.RequireTrueFinal = false
	d.TrueFinalPlayed = false
	d.InitialPlayerCount = len(names)
	d.Standings = nil

	now := c.clock.Now()
	t.Ended = false
	t.Paused = false
	t.ManuallyEnded = false
	t.UpdatedAt = now

	if len(names) >= 2 {
		seedBracket(d, now)
	}
}

// UndoReset restores the state captured by the most recent reset
func (c *Controller) UndoReset(ctx context.Context, id string) (*model.TournamentState, error) {
	release, ok := c.resets.TryLock(id)
	if !ok {
		return nil, model.ErrResetInProgress
	}
	defer release()

	unlock := c.locks.Lock(id)
	defer unlock()

	snap, ok := c.snapshots.get(id)
	if !ok || c.clock.Now().Sub(snap.takenAt) >= c.cfg.UndoWindow {
		c.logger.Warn("undo rejected, no recent reset", slog.String("tournament_id", id))
		return nil, model.ErrCannotUndo
	}

	restored := snap.state.Clone()
	out := &outbox{}
	out.push(updateMessage(restored))
	if err := c.commit(ctx, restored, out); err != nil {
		return nil, err
	}
	c.snapshots.delete(id)

	c.logger.Info("tournament reset undone", slog.String("tournament_id", id))
	return restored, nil
}

// CanUndoReset reports whether an undo snapshot is still available
func (c *Controller) CanUndoReset(ctx context.Context, id string) bool {
	snap, ok := c.snapshots.get(id)
	return ok && c.clock.Now().Sub(snap.takenAt) < c.cfg.UndoWindow
}

// RemoveTournament backs the tournament up and removes it from the live set
func (c *Controller) RemoveTournament(ctx context.Context, id string) (*model.BackupTournament, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	backup, err := c.backupAndDelete(ctx, t)
	if err != nil {
		return nil, err
	}
	c.display.Push(ctx, controlMessage(t, model.DisplayRemove))

	c.logger.Info("tournament removed",
		slog.String("tournament_id", id),
		slog.String("backup_id", backup.ID),
	)
	return backup, nil
}

// backupLocked archives t and deletes the live document without touching the display
func (c *Controller) backupLocked(ctx context.Context, t *model.TournamentState) error {
	_, err := c.backupAndDelete(ctx, t)
	return err
}

func (c *Controller) backupAndDelete(ctx context.Context, t *model.TournamentState) (*model.BackupTournament, error) {
	now := c.clock.Now()
	backup := &model.BackupTournament{
		ID:         backupID(t.ID, now),
		RemovedAt:  now,
		Tournament: *t.Clone(),
	}
	if err := c.storage.SaveBackup(ctx, backup); err != nil {
		c.logger.Error("failed to save backup",
			slog.String("tournament_id", t.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if err := c.storage.DeleteTournament(ctx, t.ID); err != nil {
		return nil, err
	}
	return backup, nil
}

// ListBackups returns every stored backup
func (c *Controller) ListBackups(ctx context.Context) ([]*model.BackupTournament, error) {
	return c.storage.ListBackups(ctx)
}

// RemoveBackup deletes a single backup
func (c *Controller) RemoveBackup(ctx context.Context, backupID string) error {
	if _, err := c.storage.GetBackup(ctx, backupID); err != nil {
		return err
	}
	return c.storage.DeleteBackup(ctx, backupID)
}

// RestoreBackup reinstates a backup under its original tournament id.
// A bare tournament id restores the newest backup of that tournament.
func (c *Controller) RestoreBackup(ctx context.Context, id string, overwrite bool) (*model.TournamentState, error) {
	backup, err := c.findBackup(ctx, id)
	if err != nil {
		return nil, err
	}

	tournamentID, ok := splitBackupID(backup.ID)
	if !ok {
		tournamentID = backup.Tournament.ID
	}

	unlock := c.locks.Lock(tournamentID)
	defer unlock()

	exists, err := c.storage.TournamentExists(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if exists && !overwrite {
		return nil, model.ErrTournamentExists
	}

	t := backup.Tournament.Clone()
	t.ID = tournamentID
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	if err := c.storage.DeleteBackup(ctx, backup.ID); err != nil {
		c.logger.Warn("restored backup could not be deleted",
			slog.String("backup_id", backup.ID),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("tournament restored",
		slog.String("tournament_id", tournamentID),
		slog.String("backup_id", backup.ID),
		slog.Bool("overwrite", overwrite),
	)
	return t, nil
}

func (c *Controller) findBackup(ctx context.Context, id string) (*model.BackupTournament, error) {
	if _, ok := splitBackupID(id); ok {
		return c.storage.GetBackup(ctx, id)
	}

	backups, err := c.storage.ListBackups(ctx)
	if err != nil {
		return nil, err
	}
	var newest *model.BackupTournament
	for _, b := range backups {
		owner, _ := splitBackupID(b.ID)
		if owner != id {
			continue
		}
		if newest == nil || b.RemovedAt.After(newest.RemovedAt) {
			newest = b
		}
	}
	if newest == nil {
		return nil, model.ErrBackupNotFound
	}
	return newest, nil
}
