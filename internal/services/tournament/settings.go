package tournament

import (
	"context"
	"log/slog"
	"maps"

	"github.com/mcoot/tourney/internal/model"
)

// UpdateSettings replaces the tournament settings. Changing the format
// reseeds the bracket with undo available; changing point values rebuilds
// the standings.
func (c *Controller) UpdateSettings(ctx context.Context, id string, settings model.Settings) (*model.TournamentState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := t.Clone()
	previous := t.Data.Settings
	t.Data.Settings = settings

	if previous.Format != settings.Format {
		release, ok := c.resets.TryLock(id)
		if !ok {
			return nil, model.ErrResetInProgress
		}
		defer release()

		c.logger.Info("format changed, resetting bracket",
			slog.String("tournament_id", id),
			slog.String("from", string(previous.Format)),
			slog.String("to", string(settings.Format)),
		)
		if err := c.resetWithUndoLocked(ctx, t, before); err != nil {
			return nil, err
		}
		return t, nil
	}

	if previous.PointsChanged(settings) && settings.Format == model.FormatRoundRobin {
		RecalculateStandings(&t.Data)
	}
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStyles merges display styles into the tournament
func (c *Controller) UpdateStyles(ctx context.Context, id string, styles map[string]string) (*model.TournamentState, error) {
	return c.mutate(ctx, id, func(t *model.TournamentState) error {
		if t.Data.Styles == nil {
			t.Data.Styles = make(map[string]string, len(styles))
		}
		maps.Copy(t.Data.Styles, styles)
		return nil
	})
}

// UpdatePosition moves the display. "Random" picks one of the preset positions.
func (c *Controller) UpdatePosition(ctx context.Context, id, position string, coords *model.Coords) (*model.TournamentState, error) {
	return c.mutate(ctx, id, func(t *model.TournamentState) error {
		if position != "" {
			t.Position = c.resolvePosition(position)
		}
		t.CustomCoords = coords
		return nil
	})
}

// UpdateOverlayInstance moves the tournament to another display instance
func (c *Controller) UpdateOverlayInstance(ctx context.Context, id, instance string) (*model.TournamentState, error) {
	return c.mutate(ctx, id, func(t *model.TournamentState) error {
		t.OverlayInstance = instance
		return nil
	})
}

// SetVisibility shows or hides the tournament on its display
func (c *Controller) SetVisibility(ctx context.Context, id string, visible bool) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Hidden = !visible
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	if visible {
		out.push(controlMessage(t, model.DisplayShow))
	} else {
		out.push(controlMessage(t, model.DisplayHide))
	}
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	return t, nil
}

// mutate applies a simple display-affecting change and pushes an update
func (c *Controller) mutate(ctx context.Context, id string, apply func(t *model.TournamentState) error) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *Controller) resolvePosition(position string) string {
	if position != model.PositionRandom {
		return position
	}
	return model.PresetPositions[c.random.Intn(len(model.PresetPositions))]
}
