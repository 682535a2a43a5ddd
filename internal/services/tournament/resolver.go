package tournament

import (
	"context"
	"log/slog"

	"github.com/mcoot/tourney/internal/model"
)

// SetMatchWinner records the outcome of an open match. Draws are handled by
// policy; a nil policy means Replay.
func (c *Controller) SetMatchWinner(ctx context.Context, id, matchID string, outcome model.Outcome, policy model.DrawPolicy) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	idx, ok := t.Data.FindCurrentMatch(matchID)
	if !ok {
		c.logger.Warn("match not found",
			slog.String("tournament_id", id),
			slog.String("match_id", matchID),
		)
		return nil, model.ErrMatchNotFound
	}
	if err := c.resolve(ctx, t, idx, outcome, policy); err != nil {
		return nil, err
	}
	return t, nil
}

// SetMatchWinnerByNumber resolves a match by its match number.
// Zero selects the first open match.
func (c *Controller) SetMatchWinnerByNumber(ctx context.Context, id string, matchNumber int, outcome model.Outcome, policy model.DrawPolicy) (*model.TournamentState, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := 0
	if matchNumber > 0 {
		var ok bool
		idx, ok = t.Data.CurrentMatchByNumber(matchNumber)
		if !ok {
			return nil, model.ErrMatchNotFound
		}
	} else if len(t.Data.CurrentMatches) == 0 {
		return nil, model.ErrNoOpenMatch
	}

	if err := c.resolve(ctx, t, idx, outcome, policy); err != nil {
		return nil, err
	}
	return t, nil
}

// resolve applies an outcome to the open match at idx, advances the bracket
// and persists. Nothing is saved if validation fails.
func (c *Controller) resolve(ctx context.Context, t *model.TournamentState, idx int, outcome model.Outcome, policy model.DrawPolicy) error {
	d := &t.Data
	m := d.CurrentMatches[idx]
	if t.Ended {
		return model.ErrTournamentEnded
	}
	if policy == nil {
		policy = model.Replay
	}

	var (
		winner       string
		drawHandling string
		completes    = true
		isDraw       bool
	)

	switch outcome {
	case model.OutcomePlayer1:
		winner = m.Player1
	case model.OutcomePlayer2:
		winner = m.Player2
	case model.OutcomeDraw:
		drawHandling = policy.String()
		if policy == model.BothAdvance && d.Settings.Format == model.FormatSingleElimination {
			c.logger.Warn("both-advance is not possible in single elimination, replaying instead",
				slog.String("tournament_id", t.ID),
				slog.Int("match_number", m.MatchNumber),
			)
			policy = model.Replay
			drawHandling = policy.String()
		}
		if d.Settings.Format == model.FormatRoundRobin && policy != model.RandomWinner && !d.Settings.RoundRobin.AllowDraws {
			c.logger.Warn("draw rejected, draws are not allowed",
				slog.String("tournament_id", t.ID),
				slog.Int("match_number", m.MatchNumber),
			)
			return model.ErrDrawsNotAllowed
		}

		switch policy {
		case model.RandomWinner:
			winner = m.Player1
			if c.random.Intn(2) == 1 {
				winner = m.Player2
			}
			m.ResolvedRandomly = true
		case model.BothAdvance:
			isDraw = true
			c.applyBothAdvance(t, m)
		default:
			isDraw = true
			completes = false
			applyDrawStats(d, m)
		}
	default:
		return model.ErrInvalidOutcome
	}

	if winner != "" {
		c.applyDecisive(t, m, winner)
	}

	out := &outbox{}
	out.emit(c.newEvent(t, model.EventMatchUpdated, model.MatchUpdatedPayload{
		TournamentID: t.ID,
		Title:        d.Title,
		MatchNumber:  m.MatchNumber,
		Player1:      m.Player1,
		Player2:      m.Player2,
		Winner:       m.Winner,
		BracketStage: d.BracketStage,
		Round:        m.Round,
		IsDraw:       isDraw,
		DrawHandling: drawHandling,
	}))

	if completes {
		c.completeMatch(d, m)
	}
	t.UpdatedAt = c.clock.Now()

	c.logger.Info("match resolved",
		slog.String("tournament_id", t.ID),
		slog.Int("match_number", m.MatchNumber),
		slog.String("winner", m.Winner),
		slog.Bool("draw", isDraw),
	)

	if completes {
		c.progress(t, out)
	}
	if !t.Ended {
		out.push(updateMessage(t))
	}
	return c.commit(ctx, t, out)
}

// completeMatch moves a match from the open container to the completed one
func (c *Controller) completeMatch(d *model.TournamentData, m *model.Match) {
	for i, open := range d.CurrentMatches {
		if open == m {
			d.CurrentMatches = append(d.CurrentMatches[:i], d.CurrentMatches[i+1:]...)
			break
		}
	}
	d.CompletedMatches = append(d.CompletedMatches, m)
	if m.Bracket == model.BracketRoundRobin {
		RecalculateStandings(d)
	}
}

func applyDrawStats(d *model.TournamentData, m *model.Match) {
	m.IsDraw = true
	m.Winner = ""
	if p, ok := d.Players[m.Player1]; ok {
		p.Draws++
	}
	if p, ok := d.Players[m.Player2]; ok {
		p.Draws++
	}
}

// applyBothAdvance completes a drawn match without a loser. Elimination
// players go back to the pool of the bracket they were playing in.
func (c *Controller) applyBothAdvance(t *model.TournamentState, m *model.Match) {
	d := &t.Data
	applyDrawStats(d, m)

	switch m.Bracket {
	case model.BracketWinners, model.BracketLosers:
		pool := poolFor(m.Bracket)
		d.Players[m.Player1].Partition = pool
		d.Players[m.Player2].Partition = pool
	case model.BracketFinal:
		// The final has to produce a champion, so it is played again
		// between the same players in the same round.
		c.scheduleFinal(d, d.Players[m.Player1], d.Players[m.Player2], m.Round)
	}
}

// applyDecisive records a win for winner and applies the format's fallout
func (c *Controller) applyDecisive(t *model.TournamentState, m *model.Match, winner string) {
	d := &t.Data
	m.Winner = winner
	m.IsDraw = false

	w := d.Players[winner]
	l := d.Players[m.Loser()]

	switch d.Settings.Format {
	case model.FormatSingleElimination:
		w.Wins++
		w.Partition = model.PartitionWinners
		l.Losses++
		l.Partition = model.PartitionEliminated
	case model.FormatRoundRobin:
		w.Wins++
		l.Losses++
	case model.FormatDoubleElimination:
		if m.Bracket == model.BracketFinal {
			c.applyFinal(t, m, w, l)
			return
		}
		w.Wins++
		w.Partition = poolFor(m.Bracket)
		l.Losses++
		if l.Losses >= 2 || m.Bracket == model.BracketLosers {
			l.Partition = model.PartitionEliminated
		} else {
			l.Partition = model.PartitionLosers
		}
	}
}

func poolFor(b model.Bracket) model.Partition {
	if b == model.BracketLosers {
		return model.PartitionLosers
	}
	return model.PartitionWinners
}
