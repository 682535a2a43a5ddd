package model

import "fmt"

// Format is the bracket structure of a tournament
type Format string

const (
	FormatSingleElimination Format = "single-elimination"
	FormatDoubleElimination Format = "double-elimination"
	FormatRoundRobin        Format = "round-robin"
)

// Valid reports whether the format is one of the known formats
func (f Format) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// RoundRobinSettings holds the point values used for standings
type RoundRobinSettings struct {
	PointsPerWin  int  `json:"pointsPerWin"`
	PointsPerDraw int  `json:"pointsPerDraw"`
	PointsPerLoss int  `json:"pointsPerLoss"`
	AllowDraws    bool `json:"allowDraws"`
}

// Settings controls tournament format and display behaviour
type Settings struct {
	Format              Format             `json:"format"`
	DisplayDuration     int                `json:"displayDuration"` // Seconds the result stays on screen after a natural end
	MaxVisibleMatches   int                `json:"maxVisibleMatches"`
	MaxVisibleStandings int                `json:"maxVisibleStandings"`
	ShowStandings       bool               `json:"showStandings"`
	StandingsPosition   string             `json:"standingsPosition"`
	RoundRobin          RoundRobinSettings `json:"roundRobin"`
}

// DefaultSettings returns the settings a new tournament starts with
func DefaultSettings() Settings {
	return Settings{
		Format:              FormatDoubleElimination,
		DisplayDuration:     30,
		MaxVisibleMatches:   2,
		MaxVisibleStandings: 5,
		ShowStandings:       true,
		StandingsPosition:   PositionMiddleRight,
		RoundRobin: RoundRobinSettings{
			PointsPerWin:  3,
			PointsPerDraw: 1,
			PointsPerLoss: 0,
		},
	}
}

// Validate checks the settings are usable
func (s Settings) Validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, s.Format)
	}
	if s.DisplayDuration < 0 {
		return fmt.Errorf("%w: display duration must not be negative", ErrInvalidSettings)
	}
	if s.MaxVisibleMatches < 1 {
		return fmt.Errorf("%w: max visible matches must be at least 1", ErrInvalidSettings)
	}
	if s.MaxVisibleStandings < 1 || s.MaxVisibleStandings > 10 {
		return fmt.Errorf("%w: max visible standings must be between 1 and 10", ErrInvalidSettings)
	}
	rr := s.RoundRobin
	if rr.PointsPerWin < 0 || rr.PointsPerDraw < 0 || rr.PointsPerLoss < 0 {
		return fmt.Errorf("%w: point values must not be negative", ErrInvalidSettings)
	}
	return nil
}

// PointsChanged reports whether the round-robin point values differ
func (s Settings) PointsChanged(other Settings) bool {
	return s.RoundRobin.PointsPerWin != other.RoundRobin.PointsPerWin ||
		s.RoundRobin.PointsPerDraw != other.RoundRobin.PointsPerDraw ||
		s.RoundRobin.PointsPerLoss != other.RoundRobin.PointsPerLoss
}

// Screen positions for the display
const (
	PositionRandom       = "Random"
	PositionTopLeft      = "Top Left"
	PositionTopMiddle    = "Top Middle"
	PositionTopRight     = "Top Right"
	PositionMiddleLeft   = "Middle Left"
	PositionMiddle       = "Middle"
	PositionMiddleRight  = "Middle Right"
	PositionBottomLeft   = "Bottom Left"
	PositionBottomMiddle = "Bottom Middle"
	PositionBottomRight  = "Bottom Right"
)

// PresetPositions are the fixed positions a "Random" position picks from
var PresetPositions = []string{
	PositionTopLeft, PositionTopMiddle, PositionTopRight,
	PositionMiddleLeft, PositionMiddle, PositionMiddleRight,
	PositionBottomLeft, PositionBottomMiddle, PositionBottomRight,
}

// Coords is a custom screen position
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}
