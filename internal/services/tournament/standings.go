package tournament

import (
	"sort"

	"github.com/mcoot/tourney/internal/model"
)

// RecalculateStandings rebuilds the round-robin table from completed matches
// using the current point values. A completed match without a winner counts
// as a draw for both players.
func RecalculateStandings(d *model.TournamentData) {
	rr := d.Settings.RoundRobin
	standings := make(map[string]*model.Standing)
	for _, p := range d.Players {
		if p.Partition == model.PartitionBench {
			continue
		}
		standings[p.Name] = &model.Standing{}
	}
	row := func(name string) *model.Standing {
		s, ok := standings[name]
		if !ok {
			s = &model.Standing{}
			standings[name] = s
		}
		return s
	}

	for _, m := range d.CompletedMatches {
		if m.Bracket != model.BracketRoundRobin {
			continue
		}
		p1, p2 := row(m.Player1), row(m.Player2)
		p1.Played++
		p2.Played++

		if !m.HasWinner() {
			p1.Draws++
			p2.Draws++
			p1.Points += rr.PointsPerDraw
			p2.Points += rr.PointsPerDraw
			continue
		}

		winner, loser := p1, p2
		if m.Winner == m.Player2 {
			winner, loser = p2, p1
		}
		winner.Wins++
		winner.Points += rr.PointsPerWin
		loser.Losses++
		loser.Points += rr.PointsPerLoss
	}

	d.Standings = standings
}

// StandingRow is one line of an ordered standings table
type StandingRow struct {
	Name string `json:"name"`
	Seed int    `json:"seed"`
	model.Standing
}

// OrderedStandings returns the table ordered by points, then wins, then seed
func OrderedStandings(d *model.TournamentData) []StandingRow {
	rows := make([]StandingRow, 0, len(d.Standings))
	for name, s := range d.Standings {
		row := StandingRow{Name: name, Standing: *s}
		if p, ok := d.Players[name]; ok {
			row.Seed = p.Seed
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Seed != b.Seed {
			return a.Seed < b.Seed
		}
		return a.Name < b.Name
	})
	return rows
}

// roundRobinWinner returns the first player in seed order holding the highest
// points total. Ties go to the earlier seed.
func roundRobinWinner(d *model.TournamentData) string {
	best := ""
	bestPoints := 0
	for _, p := range d.SeededPlayers() {
		s, ok := d.Standings[p.Name]
		if !ok {
			continue
		}
		if best == "" || s.Points > bestPoints {
			best = p.Name
			bestPoints = s.Points
		}
	}
	return best
}
