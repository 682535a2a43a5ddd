package tournament

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// CleanupResult reports what a retention sweep removed
type CleanupResult struct {
	BackupsRemoved     int `json:"backupsRemoved"`
	TournamentsRemoved int `json:"tournamentsRemoved"`
}

// CleanupOldBackups deletes expired backups and ended tournaments that have
// not changed within the retention window. Running it again is harmless.
func (c *Controller) CleanupOldBackups(ctx context.Context) (CleanupResult, error) {
	var result CleanupResult
	now := c.clock.Now()

	backups, err := c.storage.ListBackups(ctx)
	if err != nil {
		return result, err
	}
	for _, b := range backups {
		if now.Sub(b.RemovedAt) <= c.cfg.BackupRetention {
			continue
		}
		if err := c.storage.DeleteBackup(ctx, b.ID); err != nil {
			return result, err
		}
		result.BackupsRemoved++
	}

	tournaments, err := c.storage.ListTournaments(ctx)
	if err != nil {
		return result, err
	}
	for _, t := range tournaments {
		if !t.Ended || now.Sub(t.UpdatedAt) <= c.cfg.EndedRetention {
			continue
		}
		removed, err := c.deleteIfStale(ctx, t.ID, now)
		if err != nil {
			return result, err
		}
		if removed {
			result.TournamentsRemoved++
		}
	}

	if result.BackupsRemoved > 0 || result.TournamentsRemoved > 0 {
		c.logger.Info("retention sweep complete",
			slog.Int("backups_removed", result.BackupsRemoved),
			slog.Int("tournaments_removed", result.TournamentsRemoved),
		)
	}
	return result, nil
}

// deleteIfStale re-checks a tournament under its lock before deleting it
func (c *Controller) deleteIfStale(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.storage.GetTournament(ctx, id)
	if errors.Is(err, model.ErrTournamentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !t.Ended || now.Sub(t.UpdatedAt) <= c.cfg.EndedRetention {
		return false, nil
	}
	return true, c.storage.DeleteTournament(ctx, id)
}

// RunRetention sweeps once immediately and then every interval until ctx is done
func (c *Controller) RunRetention(ctx context.Context, interval time.Duration) error {
	if _, err := c.CleanupOldBackups(ctx); err != nil {
		c.logger.Error("retention sweep failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := c.CleanupOldBackups(ctx); err != nil {
				c.logger.Error("retention sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
