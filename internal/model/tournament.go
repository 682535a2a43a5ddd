package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Stage is the current phase of bracket play
type Stage string

const (
	StageWinners    Stage = "winners"
	StageLosers     Stage = "losers"
	StageFinal      Stage = "final"
	StageRoundRobin Stage = "round-robin"
)

// TournamentData is the bracket aggregate: roster, matches and counters
type TournamentData struct {
	Title              string               `json:"title"`
	Players            map[string]*Player   `json:"players"`
	CurrentMatches     []*Match             `json:"currentMatches"`
	CompletedMatches   []*Match             `json:"completedMatches"`
	MatchCounter       int                  `json:"matchCounter"`
	WinnersRound       int                  `json:"winnersRound"`
	LosersRound        int                  `json:"losersRound"`
	BracketStage       Stage                `json:"bracketStage"`
	Winner             string               `json:"winner,omitempty"`
	RequireTrueFinal   bool                 `json:"requireTrueFinal"`
	TrueFinalPlayed    bool                 `json:"trueFinalPlayed"`
	InitialPlayerCount int                  `json:"initialPlayerCount"`
	Settings           Settings             `json:"settings"`
	Styles             map[string]string    `json:"styles,omitempty"`
	Standings          map[string]*Standing `json:"standings,omitempty"`
}

// TournamentState is the persisted document for one tournament
type TournamentState struct {
	ID              string         `json:"id"`
	UUID            string         `json:"uuid"`
	Data            TournamentData `json:"tournamentData"`
	Ended           bool           `json:"ended"`
	Paused          bool           `json:"paused"`
	ManuallyEnded   bool           `json:"manuallyEnded,omitempty"`
	Hidden          bool           `json:"hidden,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Position        string         `json:"position"`
	CustomCoords    *Coords        `json:"customCoords,omitempty"`
	OverlayInstance string         `json:"overlayInstance,omitempty"`
}

// BackupTournament is a removed tournament kept for restoration
type BackupTournament struct {
	ID         string          `json:"id"`
	RemovedAt  time.Time       `json:"removedAt"`
	Tournament TournamentState `json:"tournament"`
}

// Clone returns a deep copy of the state
func (t *TournamentState) Clone() *TournamentState {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	var out TournamentState
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

// Clone returns a deep copy of the backup
func (b *BackupTournament) Clone() *BackupTournament {
	return &BackupTournament{
		ID:         b.ID,
		RemovedAt:  b.RemovedAt,
		Tournament: *b.Tournament.Clone(),
	}
}

// Player looks up a player by name
func (d *TournamentData) Player(name string) (*Player, bool) {
	p, ok := d.Players[name]
	return p, ok
}

// PlayersIn returns the players in a partition ordered by seed
func (d *TournamentData) PlayersIn(partition Partition) []*Player {
	var out []*Player
	for _, p := range d.Players {
		if p.Partition == partition {
			out = append(out, p)
		}
	}
	SortBySeed(out)
	return out
}

// SeededPlayers returns every player that is not on the bench, ordered by seed
func (d *TournamentData) SeededPlayers() []*Player {
	var out []*Player
	for _, p := range d.Players {
		if p.Partition != PartitionBench {
			out = append(out, p)
		}
	}
	SortBySeed(out)
	return out
}

// AllPlayers returns every registered player ordered by seed
func (d *TournamentData) AllPlayers() []*Player {
	out := make([]*Player, 0, len(d.Players))
	for _, p := range d.Players {
		out = append(out, p)
	}
	SortBySeed(out)
	return out
}

// PlayerNames returns the registered names ordered by seed
func (d *TournamentData) PlayerNames() []string {
	players := d.AllPlayers()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

// HasMatches reports whether a bracket has been generated
func (d *TournamentData) HasMatches() bool {
	return len(d.CurrentMatches) > 0 || len(d.CompletedMatches) > 0
}

// FindCurrentMatch returns the index of an open match by ID
func (d *TournamentData) FindCurrentMatch(id string) (int, bool) {
	for i, m := range d.CurrentMatches {
		if m.ID == id {
			return i, true
		}
	}
	return -1, false
}

// CurrentMatchByNumber returns the index of an open match by match number
func (d *TournamentData) CurrentMatchByNumber(number int) (int, bool) {
	for i, m := range d.CurrentMatches {
		if m.MatchNumber == number {
			return i, true
		}
	}
	return -1, false
}

// HasBracketMatches reports whether any match, open or completed, belongs to the bracket
func (d *TournamentData) HasBracketMatches(b Bracket) bool {
	for _, m := range d.CurrentMatches {
		if m.Bracket == b {
			return true
		}
	}
	for _, m := range d.CompletedMatches {
		if m.Bracket == b {
			return true
		}
	}
	return false
}

// SortBySeed orders players by ascending seed, falling back to name
func SortBySeed(players []*Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Seed != players[j].Seed {
			return players[i].Seed < players[j].Seed
		}
		return players[i].Name < players[j].Name
	})
}

// Summary is the listing view of a tournament
type Summary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"` // "active" or "ended"
}
