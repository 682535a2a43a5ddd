package tournament

import (
	"sort"
	"time"

	"github.com/mcoot/tourney/internal/model"
)

// addMatch appends a new open match and advances the match counter
func addMatch(d *model.TournamentData, id string, p1, p2 string, bracket model.Bracket, round int) *model.Match {
	m := &model.Match{
		ID:          id,
		MatchNumber: d.MatchCounter,
		Player1:     p1,
		Player2:     p2,
		Bracket:     bracket,
		Round:       round,
	}
	d.CurrentMatches = append(d.CurrentMatches, m)
	return m
}

func matchIDTaken(d *model.TournamentData, id string) bool {
	for _, m := range d.CurrentMatches {
		if m.ID == id {
			return true
		}
	}
	for _, m := range d.CompletedMatches {
		if m.ID == id {
			return true
		}
	}
	return false
}

func addPairing(d *model.TournamentData, now time.Time, p1, p2 *model.Player, bracket model.Bracket, round int) *model.Match {
	d.MatchCounter++
	p1.Partition = model.PartitionInMatch
	p2.Partition = model.PartitionInMatch
	return addMatch(d, matchID(now, d.MatchCounter), p1.Name, p2.Name, bracket, round)
}

// seedBracket generates the opening matches for the configured format
func seedBracket(d *model.TournamentData, now time.Time) {
	if d.Settings.Format == model.FormatRoundRobin {
		pairRoundRobin(d, now)
		return
	}
	pairFolded(d, now)
}

// pairFolded pairs the top seed against the bottom seed, second against
// second-to-last and so on. With an odd field the middle seed sits out.
func pairFolded(d *model.TournamentData, now time.Time) {
	pool := d.PlayersIn(model.PartitionWinners)
	n := len(pool)
	half := (n + 1) / 2
	for i := 0; i < half; i++ {
		j := n - 1 - i
		if i >= j {
			break
		}
		addPairing(d, now, pool[i], pool[j], model.BracketWinners, d.WinnersRound)
	}
}

// pairWinners pairs the winners pool in seed order
func pairWinners(d *model.TournamentData, now time.Time) int {
	return pairConsecutive(d, now, d.PlayersIn(model.PartitionWinners), model.BracketWinners, d.WinnersRound)
}

// pairLosers pairs the losers pool in drop order
func pairLosers(d *model.TournamentData, now time.Time) int {
	pool := d.PlayersIn(model.PartitionLosers)
	sortByDropOrder(d, pool)
	return pairConsecutive(d, now, pool, model.BracketLosers, d.LosersRound)
}

// pairConsecutive pairs players (0,1), (2,3), ... A trailing odd player stays
// in its pool and is picked up by the next call.
func pairConsecutive(d *model.TournamentData, now time.Time, pool []*model.Player, bracket model.Bracket, round int) int {
	created := 0
	for i := 0; i+1 < len(pool); i += 2 {
		addPairing(d, now, pool[i], pool[i+1], bracket, round)
		created++
	}
	return created
}

// pairRoundRobin creates every unique pairing once and zeroes the standings
func pairRoundRobin(d *model.TournamentData, now time.Time) {
	players := d.PlayersIn(model.PartitionRoundRobin)
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			d.MatchCounter++
			addMatch(d, matchID(now, d.MatchCounter), players[i].Name, players[j].Name, model.BracketRoundRobin, 1)
		}
	}
	d.Standings = make(map[string]*model.Standing, len(players))
	for _, p := range players {
		d.Standings[p.Name] = &model.Standing{}
	}
}

type drop struct {
	round       int
	matchNumber int
}

// dropOrder records when each player lost their most recent winners-bracket match
func dropOrder(d *model.TournamentData) map[string]drop {
	drops := make(map[string]drop)
	for _, m := range d.CompletedMatches {
		if m.Bracket != model.BracketWinners || !m.HasWinner() {
			continue
		}
		loser := m.Loser()
		prev, seen := drops[loser]
		if !seen || m.Round > prev.round || (m.Round == prev.round && m.MatchNumber > prev.matchNumber) {
			drops[loser] = drop{round: m.Round, matchNumber: m.MatchNumber}
		}
	}
	return drops
}

// sortByDropOrder orders players by drop round, then match number, then seed.
// Players with no recorded drop are treated as round 1, match 0.
func sortByDropOrder(d *model.TournamentData, players []*model.Player) {
	drops := dropOrder(d)
	key := func(p *model.Player) drop {
		if dr, ok := drops[p.Name]; ok {
			return dr
		}
		return drop{round: 1}
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := key(players[i]), key(players[j])
		if a.round != b.round {
			return a.round < b.round
		}
		if a.matchNumber != b.matchNumber {
			return a.matchNumber < b.matchNumber
		}
		return players[i].Seed < players[j].Seed
	})
}
