package model

// Partition is the roster bucket a player currently belongs to
type Partition string

const (
	// PartitionBench holds players registered after the bracket was seeded.
	// They join play at the next reset.
	PartitionBench      Partition = "bench"
	PartitionInMatch    Partition = "in-match"
	PartitionWinners    Partition = "winners"
	PartitionLosers     Partition = "losers"
	PartitionEliminated Partition = "eliminated"
	PartitionRoundRobin Partition = "round-robin"
)

// Player is a tournament participant. Identity is the case-sensitive name.
type Player struct {
	Name      string    `json:"name"`
	Seed      int       `json:"seed"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Draws     int       `json:"draws"`
	Partition Partition `json:"partition"`
}

// Eliminated reports whether the player is out of the tournament
func (p *Player) Eliminated() bool {
	return p.Partition == PartitionEliminated
}

// ResetStats clears the win/loss/draw counters
func (p *Player) ResetStats() {
	p.Wins = 0
	p.Losses = 0
	p.Draws = 0
}
