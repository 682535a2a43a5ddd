package tournament

import (
	"fmt"
	"math"

	"github.com/mcoot/tourney/internal/model"
)

var ordinals = []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth", "Tenth"}

// StatusText describes how far a tournament has progressed
func StatusText(t *model.TournamentState) string {
	d := &t.Data
	switch d.Settings.Format {
	case model.FormatRoundRobin:
		return roundRobinStatus(d)
	case model.FormatSingleElimination:
		return singleEliminationStatus(d)
	default:
		return doubleEliminationStatus(d)
	}
}

func roundRobinStatus(d *model.TournamentData) string {
	completed := 0
	for _, m := range d.CompletedMatches {
		if m.Bracket == model.BracketRoundRobin {
			completed++
		}
	}
	total := completed + len(d.CurrentMatches)
	return fmt.Sprintf("Round Robin - %d/%d Matches Complete", completed, total)
}

func singleEliminationStatus(d *model.TournamentData) string {
	if d.Winner != "" {
		return "Tournament Complete"
	}
	remaining := len(d.PlayersIn(model.PartitionWinners)) + 2*len(d.CurrentMatches)
	left := ceilLog2(remaining)
	switch left {
	case 1:
		return "Single Elimination - Finals"
	case 2:
		return "Single Elimination - Semifinals"
	case 3:
		return "Single Elimination - Quarterfinals"
	}
	round := ceilLog2(d.InitialPlayerCount) - left + 1
	if round < 1 {
		round = 1
	}
	return fmt.Sprintf("Single Elimination - Round %d", round)
}

func doubleEliminationStatus(d *model.TournamentData) string {
	if d.Winner != "" {
		return "Tournament Complete"
	}
	if d.BracketStage == model.StageFinal {
		if len(d.CurrentMatches) > 0 {
			if d.CurrentMatches[0].Round >= 2 {
				return "Tournament Finals - True Final"
			}
			return "Tournament Finals - Match 1"
		}
		return "Tournament Finals"
	}

	bracket := "Main Bracket"
	round := d.WinnersRound
	total := ceilLog2(d.InitialPlayerCount)
	if d.BracketStage == model.StageLosers {
		bracket = "Redemption Bracket"
		round = d.LosersRound
		total = (d.InitialPlayerCount + 1) / 2
	}
	return fmt.Sprintf("%s - %s", bracket, roundName(round, total))
}

func roundName(round, total int) string {
	switch {
	case total > 0 && round == total:
		return "Finals"
	case total > 1 && round == total-1:
		return "Semifinals"
	case total > 2 && round == total-2:
		return "Quarterfinals"
	case round >= 1 && round <= len(ordinals):
		return ordinals[round-1] + " Round"
	}
	return fmt.Sprintf("Round %d", round)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}
