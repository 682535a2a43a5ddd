package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// applyFinal resolves a final-bracket match in double elimination.
// The winners-bracket finalist has no losses; if the losers-bracket finalist
// beats them, a second final decides the title.
func (c *Controller) applyFinal(t *model.TournamentState, m *model.Match, w, l *model.Player) {
	d := &t.Data
	priorWinnerLosses := w.Losses
	priorLoserLosses := l.Losses
	w.Wins++
	l.Losses++

	if !d.TrueFinalPlayed && priorWinnerLosses > 0 && priorLoserLosses == 0 {
		d.RequireTrueFinal = true
		d.TrueFinalPlayed = true
		c.scheduleFinal(d, w, l, 2)
		c.logger.Info("true final scheduled",
			slog.String("tournament_id", t.ID),
			slog.String("player1", w.Name),
			slog.String("player2", l.Name),
		)
		return
	}

	w.Partition = model.PartitionWinners
	l.Partition = model.PartitionEliminated
	d.Winner = w.Name
}

// scheduleFinal opens a final-bracket match between two players
func (c *Controller) scheduleFinal(d *model.TournamentData, p1, p2 *model.Player, round int) {
	d.MatchCounter++
	p1.Partition = model.PartitionInMatch
	p2.Partition = model.PartitionInMatch
	id := finalMatchID(c.clock.Now(), round)
	if matchIDTaken(d, id) {
		id = fmt.Sprintf("%s-%d", id, d.MatchCounter)
	}
	addMatch(d, id, p1.Name, p2.Name, model.BracketFinal, round)
	d.BracketStage = model.StageFinal
}

// progress runs after a match completes. It ends the tournament once a
// champion exists, or generates the next round when no matches are open.
func (c *Controller) progress(t *model.TournamentState, out *outbox) {
	d := &t.Data
	if d.Winner != "" {
		c.endLocked(t, false, out)
		return
	}
	if len(d.CurrentMatches) > 0 {
		return
	}

	switch d.Settings.Format {
	case model.FormatRoundRobin:
		c.endLocked(t, false, out)
		return
	case model.FormatSingleElimination:
		c.advanceSingle(t)
	case model.FormatDoubleElimination:
		c.advanceDouble(t)
	}

	if d.Winner != "" {
		c.endLocked(t, false, out)
	}
}

func (c *Controller) advanceSingle(t *model.TournamentState) {
	d := &t.Data
	pool := d.PlayersIn(model.PartitionWinners)
	switch {
	case len(pool) == 1:
		d.Winner = pool[0].Name
	case len(pool) >= 2:
		d.WinnersRound++
		pairWinners(d, c.clock.Now())
	default:
		c.logger.Warn("bracket stalled, no players left to pair", slog.String("tournament_id", t.ID))
	}
}

func (c *Controller) advanceDouble(t *model.TournamentState) {
	d := &t.Data
	now := c.clock.Now()
	winners := d.PlayersIn(model.PartitionWinners)
	losers := d.PlayersIn(model.PartitionLosers)

	switch {
	case len(winners) == 1 && len(losers) <= 1:
		d.BracketStage = model.StageFinal
		if len(losers) == 0 {
			d.Winner = winners[0].Name
			return
		}
		c.scheduleFinal(d, winners[0], losers[0], 1)
	case len(winners) >= 2:
		d.WinnersRound++
		d.BracketStage = model.StageWinners
		pairWinners(d, now)
	case len(losers) >= 2:
		if d.HasBracketMatches(model.BracketLosers) {
			d.LosersRound++
		}
		d.BracketStage = model.StageLosers
		pairLosers(d, now)
	default:
		c.logger.Warn("bracket stalled",
			slog.String("tournament_id", t.ID),
			slog.Int("winners_pool", len(winners)),
			slog.Int("losers_pool", len(losers)),
		)
	}
}

// endLocked marks the tournament ended and queues the completion effects.
// A manual stop retracts the display at once; a natural end with a champion
// keeps it up for the display duration.
func (c *Controller) endLocked(t *model.TournamentState, manual bool, out *outbox) {
	d := &t.Data
	now := c.clock.Now()
	t.Ended = true
	t.ManuallyEnded = manual
	t.UpdatedAt = now

	if d.Settings.Format == model.FormatRoundRobin && d.Winner == "" && !manual {
		RecalculateStandings(d)
		d.Winner = roundRobinWinner(d)
	}

	if d.Winner != "" {
		out.emit(c.newEvent(t, model.EventTournamentEnded, model.TournamentEndedPayload{
			TournamentID:  t.ID,
			Title:         d.Title,
			Winner:        d.Winner,
			MatchesPlayed: len(d.CompletedMatches),
			Duration:      int64(now.Sub(t.CreatedAt).Seconds()),
		}))
	}

	switch {
	case manual:
		out.push(controlMessage(t, model.DisplayRemove))
	case d.Winner != "":
		out.push(updateMessage(t))
		out.retract = true
	default:
		out.push(controlMessage(t, model.DisplayRemove))
	}

	c.logger.Info("tournament ended",
		slog.String("tournament_id", t.ID),
		slog.String("winner", d.Winner),
		slog.Bool("manual", manual),
		slog.Int("matches_played", len(d.CompletedMatches)),
	)
}

func (c *Controller) displayDuration(t *model.TournamentState) time.Duration {
	if t.Data.Settings.DisplayDuration > 0 {
		return time.Duration(t.Data.Settings.DisplayDuration) * time.Second
	}
	return c.cfg.DefaultDisplayDuration
}

// scheduleRetraction removes the finished tournament from the display once
// the display duration has passed. It does nothing if the tournament was
// deleted, recreated or restarted in the meantime.
func (c *Controller) scheduleRetraction(t *model.TournamentState) {
	id, uuid := t.ID, t.UUID
	c.clock.AfterFunc(c.displayDuration(t), func() {
		ctx := context.Background()
		unlock := c.locks.Lock(id)
		defer unlock()

		current, err := c.storage.GetTournament(ctx, id)
		if err != nil {
			c.logger.Debug("display retraction skipped",
				slog.String("tournament_id", id),
				slog.String("error", err.Error()),
			)
			return
		}
		if current.UUID != uuid || !current.Ended {
			return
		}
		c.display.Push(ctx, controlMessage(current, model.DisplayRemove))
	})
}

// StartTournament seeds the bracket if needed and announces the start
func (c *Controller) StartTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(t.Data.Players) < 2 {
		return nil, model.ErrInsufficientPlayers
	}

	if !t.Data.HasMatches() {
		c.resetState(t)
	}
	t.Ended = false
	t.ManuallyEnded = false
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.emit(c.newEvent(t, model.EventTournamentStarted, model.TournamentStartedPayload{
		TournamentID: t.ID,
		Title:        t.Data.Title,
		Players:      t.Data.PlayerNames(),
	}))
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}

	c.logger.Info("tournament started",
		slog.String("tournament_id", id),
		slog.Int("player_count", len(t.Data.Players)),
	)
	return t, nil
}

// StopTournament ends the tournament on operator request
func (c *Controller) StopTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	return c.EndTournament(ctx, id, true)
}

// EndTournament ends the tournament. manual marks an operator stop.
// Ending an already ended tournament returns it unchanged.
func (c *Controller) EndTournament(ctx context.Context, id string, manual bool) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Ended {
		return t, nil
	}
	out := &outbox{}
	c.endLocked(t, manual, out)
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	return t, nil
}
