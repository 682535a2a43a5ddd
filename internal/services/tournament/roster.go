package tournament

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/tourney/internal/model"
)

// registerPlayer adds a name to the roster. Before the bracket is seeded the
// player goes straight into the starting pool; afterwards they wait on the
// bench until the next reset.
func registerPlayer(d *model.TournamentData, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidPlayerName
	}
	if _, exists := d.Players[name]; exists {
		return nil, model.ErrPlayerExists
	}
	if d.Players == nil {
		d.Players = make(map[string]*model.Player)
	}

	seed := 0
	for _, p := range d.Players {
		if p.Seed > seed {
			seed = p.Seed
		}
	}

	partition := model.PartitionBench
	if !d.HasMatches() {
		partition = model.PartitionWinners
		if d.Settings.Format == model.FormatRoundRobin {
			partition = model.PartitionRoundRobin
		}
	}

	p := &model.Player{Name: name, Seed: seed + 1, Partition: partition}
	d.Players[name] = p
	return p, nil
}

// AddPlayer registers a new player
func (c *Controller) AddPlayer(ctx context.Context, id, name string) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := registerPlayer(&t.Data, name)
	if err != nil {
		c.logger.Warn("player not added",
			slog.String("tournament_id", id),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}

	c.logger.Info("player added",
		slog.String("tournament_id", id),
		slog.String("name", p.Name),
		slog.String("partition", string(p.Partition)),
	)
	return t, nil
}

// RemovePlayer removes a player who has not been drawn into the bracket
func (c *Controller) RemovePlayer(ctx context.Context, id, name string) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, ok := t.Data.Players[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	if p.Partition != model.PartitionBench && t.Data.HasMatches() {
		return nil, model.ErrTournamentInProgress
	}

	delete(t.Data.Players, name)
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}

	c.logger.Info("player removed",
		slog.String("tournament_id", id),
		slog.String("name", name),
	)
	return t, nil
}

// ReplacePlayer renames a player everywhere they appear, keeping their
// seed, record and bracket position
func (c *Controller) ReplacePlayer(ctx context.Context, id, oldName, newName string) (*model.TournamentState, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, model.ErrInvalidPlayerName
	}

	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &t.Data
	p, ok := d.Players[oldName]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	if _, taken := d.Players[newName]; taken {
		return nil, model.ErrPlayerExists
	}

	delete(d.Players, oldName)
	p.Name = newName
	d.Players[newName] = p

	rename := func(s *string) {
		if *s == oldName {
			*s = newName
		}
	}
	for _, m := range d.CurrentMatches {
		rename(&m.Player1)
		rename(&m.Player2)
		rename(&m.Winner)
	}
	for _, m := range d.CompletedMatches {
		rename(&m.Player1)
		rename(&m.Player2)
		rename(&m.Winner)
	}
	rename(&d.Winner)
	if s, ok := d.Standings[oldName]; ok {
		delete(d.Standings, oldName)
		d.Standings[newName] = s
	}
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}

	c.logger.Info("player replaced",
		slog.String("tournament_id", id),
		slog.String("old_name", oldName),
		slog.String("new_name", newName),
	)
	return t, nil
}
