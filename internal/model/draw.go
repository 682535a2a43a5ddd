package model

import (
	"fmt"
	"strings"
)

// DrawPolicy decides what happens when a match is reported as a draw.
// The set of policies is closed: Replay, BothAdvance and RandomWinner.
type DrawPolicy interface {
	fmt.Stringer
	drawPolicy()
}

type replayPolicy struct{}
type bothAdvancePolicy struct{}
type randomWinnerPolicy struct{}

func (replayPolicy) drawPolicy()       {}
func (bothAdvancePolicy) drawPolicy()  {}
func (randomWinnerPolicy) drawPolicy() {}

func (replayPolicy) String() string       { return "replay" }
func (bothAdvancePolicy) String() string  { return "both-advance" }
func (randomWinnerPolicy) String() string { return "random" }

var (
	// Replay keeps the match open for a rematch
	Replay DrawPolicy = replayPolicy{}
	// BothAdvance completes the match and returns both players to their pool
	BothAdvance DrawPolicy = bothAdvancePolicy{}
	// RandomWinner flips a coin and treats the result as decisive
	RandomWinner DrawPolicy = randomWinnerPolicy{}
)

// ParseDrawPolicy resolves a policy name. An empty name means Replay.
func ParseDrawPolicy(s string) (DrawPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replay":
		return Replay, nil
	case "both-advance", "both_advance", "bothadvance":
		return BothAdvance, nil
	case "random":
		return RandomWinner, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDrawPolicy, s)
}
