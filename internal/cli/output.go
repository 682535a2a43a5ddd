package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Tournament:
		o.printTournament(v)
	case TournamentList:
		o.printTournamentList(v)
	case Match:
		o.printMatch(v)
	case Standings:
		o.printStandings(v)
	case StatusResult:
		fmt.Fprintln(o.w, v.Status)
	case CanUndoResult:
		fmt.Fprintf(o.w, "Can undo: %t\n", v.CanUndo)
	case Backup:
		o.printBackup(v)
	case BackupList:
		o.printBackupList(v)
	case CleanupResult:
		fmt.Fprintf(o.w, "Removed %d backups and %d tournaments\n", v.BackupsRemoved, v.TournamentsRemoved)
	case Session:
		fmt.Fprintf(o.w, "Logged in as %s until %s\n", v.Operator, v.ExpiresAt.Format(time.RFC3339))
	case HealthResult:
		fmt.Fprintf(o.w, "%s is %s\n", v.Server, v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	Name      string `json:"name"`
	Seed      int    `json:"seed"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	Draws     int    `json:"draws"`
	Partition string `json:"partition"`
}

// Match response type
type Match struct {
	ID          string `json:"id"`
	MatchNumber int    `json:"matchNumber"`
	Player1     string `json:"player1"`
	Player2     string `json:"player2"`
	Winner      string `json:"winner,omitempty"`
	Bracket     string `json:"bracket"`
	Round       int    `json:"round"`
}

// Settings response type
type Settings struct {
	Format          string `json:"format"`
	DisplayDuration int    `json:"displayDuration"`
}

// TournamentData response type
type TournamentData struct {
	Title            string            `json:"title"`
	Players          map[string]Player `json:"players"`
	CurrentMatches   []Match           `json:"currentMatches"`
	CompletedMatches []Match           `json:"completedMatches"`
	Winner           string            `json:"winner,omitempty"`
	Settings         Settings          `json:"settings"`
}

// Tournament response type
type Tournament struct {
	ID              string         `json:"id"`
	UUID            string         `json:"uuid"`
	Data            TournamentData `json:"tournamentData"`
	Ended           bool           `json:"ended"`
	Hidden          bool           `json:"hidden,omitempty"`
	Position        string         `json:"position"`
	OverlayInstance string         `json:"overlayInstance,omitempty"`
	StatusText      string         `json:"statusText"`
}

// TournamentSummary response type
type TournamentSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// TournamentList response type
type TournamentList struct {
	Tournaments []TournamentSummary `json:"tournaments"`
}

// StandingRow response type
type StandingRow struct {
	Name   string `json:"name"`
	Seed   int    `json:"seed"`
	Points int    `json:"points"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

// Standings response type
type Standings struct {
	ID        string        `json:"id"`
	Standings []StandingRow `json:"standings"`
}

// StatusResult response type
type StatusResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CanUndoResult response type
type CanUndoResult struct {
	CanUndo bool `json:"canUndo"`
}

// Backup response type
type Backup struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournamentId"`
	Title        string    `json:"title"`
	RemovedAt    time.Time `json:"removedAt"`
	Ended        bool      `json:"ended"`
	Winner       string    `json:"winner,omitempty"`
}

// BackupList response type
type BackupList struct {
	Backups []Backup `json:"backups"`
}

// CleanupResult response type
type CleanupResult struct {
	BackupsRemoved     int `json:"backupsRemoved"`
	TournamentsRemoved int `json:"tournamentsRemoved"`
}

// Session response type
type Session struct {
	Token     string    `json:"token"`
	Operator  string    `json:"operator"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HealthResult is the health reply, tagged with the server that was asked
type HealthResult struct {
	Status string `json:"status"`
	Server string `json:"server,omitempty"`
}

func (o *Output) printTournament(t Tournament) {
	fmt.Fprintf(o.w, "Tournament: %s (%s)\n", t.Data.Title, t.ID)
	fmt.Fprintf(o.w, "Format: %s\n", t.Data.Settings.Format)
	fmt.Fprintf(o.w, "Status: %s\n", t.StatusText)
	if t.Hidden {
		fmt.Fprintln(o.w, "Hidden: yes")
	}

	players := make([]Player, 0, len(t.Data.Players))
	for _, p := range t.Data.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Seed < players[j].Seed })

	fmt.Fprintf(o.w, "\nPlayers (%d):\n", len(players))
	for _, p := range players {
		fmt.Fprintf(o.w, "  %2d. %-20s %dW %dL %dD  [%s]\n", p.Seed, p.Name, p.Wins, p.Losses, p.Draws, p.Partition)
	}

	if len(t.Data.CurrentMatches) > 0 {
		fmt.Fprintln(o.w, "\nOpen matches:")
		for _, m := range t.Data.CurrentMatches {
			fmt.Fprintf(o.w, "  #%d %s vs %s (%s, round %d)\n", m.MatchNumber, m.Player1, m.Player2, m.Bracket, m.Round)
		}
	}

	if t.Data.Winner != "" {
		fmt.Fprintf(o.w, "\nWinner: %s\n", t.Data.Winner)
	}
}

func (o *Output) printTournamentList(l TournamentList) {
	if len(l.Tournaments) == 0 {
		fmt.Fprintln(o.w, "No tournaments")
		return
	}
	for _, t := range l.Tournaments {
		fmt.Fprintf(o.w, "%-40s %-30s %s\n", t.ID, t.Title, t.Status)
	}
}

func (o *Output) printMatch(m Match) {
	fmt.Fprintf(o.w, "Match #%d: %s vs %s\n", m.MatchNumber, m.Player1, m.Player2)
	fmt.Fprintf(o.w, "Bracket: %s, round %d\n", m.Bracket, m.Round)
	fmt.Fprintf(o.w, "ID: %s\n", m.ID)
}

func (o *Output) printStandings(s Standings) {
	fmt.Fprintf(o.w, "%-4s %-20s %4s %4s %4s %4s %4s\n", "#", "Player", "Pts", "P", "W", "D", "L")
	fmt.Fprintln(o.w, strings.Repeat("-", 50))
	for i, r := range s.Standings {
		fmt.Fprintf(o.w, "%-4d %-20s %4d %4d %4d %4d %4d\n", i+1, r.Name, r.Points, r.Played, r.Wins, r.Draws, r.Losses)
	}
}

func (o *Output) printBackup(b Backup) {
	state := "active"
	if b.Ended {
		state = "ended"
		if b.Winner != "" {
			state += ", winner " + b.Winner
		}
	}
	fmt.Fprintf(o.w, "%s  %s (%s) removed %s\n", b.ID, b.Title, state, b.RemovedAt.Format(time.RFC3339))
}

func (o *Output) printBackupList(l BackupList) {
	if len(l.Backups) == 0 {
		fmt.Fprintln(o.w, "No backups")
		return
	}
	for _, b := range l.Backups {
		o.printBackup(b)
	}
}
