package tournament

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/notify"
	"github.com/mcoot/tourney/internal/dependencies/random"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

// Config holds timing settings for the tournament controller
type Config struct {
	// UndoWindow is how long a reset can be undone
	UndoWindow time.Duration
	// BackupRetention is how long removed tournaments are kept
	BackupRetention time.Duration
	// EndedRetention is how long ended tournaments stay in the live set
	EndedRetention time.Duration
	// DefaultDisplayDuration applies when settings leave the display duration at zero
	DefaultDisplayDuration time.Duration
}

// DefaultConfig returns the standard timing settings
func DefaultConfig() Config {
	return Config{
		UndoWindow:             30 * time.Second,
		BackupRetention:        7 * 24 * time.Hour,
		EndedRetention:         7 * 24 * time.Hour,
		DefaultDisplayDuration: 30 * time.Second,
	}
}

// Controller owns every mutation of tournament state
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	events  notify.EventSink
	display notify.Display
	logger  *slog.Logger
	cfg     Config

	locks     *keyedMutex
	resets    *lockSet
	snapshots *snapshotStore
}

// NewController creates a new tournament Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	events notify.EventSink,
	display notify.Display,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	defaults := DefaultConfig()
	if cfg.UndoWindow <= 0 {
		cfg.UndoWindow = defaults.UndoWindow
	}
	if cfg.BackupRetention <= 0 {
		cfg.BackupRetention = defaults.BackupRetention
	}
	if cfg.EndedRetention <= 0 {
		cfg.EndedRetention = defaults.EndedRetention
	}
	if cfg.DefaultDisplayDuration <= 0 {
		cfg.DefaultDisplayDuration = defaults.DefaultDisplayDuration
	}
	if events == nil {
		events = notify.Nop{}
	}
	if display == nil {
		display = notify.Nop{}
	}
	return &Controller{
		storage:   storage,
		clock:     clock,
		random:    random,
		events:    events,
		display:   display,
		logger:    logger,
		cfg:       cfg,
		locks:     newKeyedMutex(),
		resets:    newLockSet(),
		snapshots: newSnapshotStore(),
	}
}

// outbox collects notifications for an operation so they are only sent
// once the new state has been persisted
type outbox struct {
	events   []model.Event
	messages []model.DisplayMessage
	retract  bool
}

func (o *outbox) emit(e model.Event) {
	o.events = append(o.events, e)
}

func (o *outbox) push(m model.DisplayMessage) {
	o.messages = append(o.messages, m)
}

// commit saves the tournament and then flushes the outbox
func (c *Controller) commit(ctx context.Context, t *model.TournamentState, out *outbox) error {
	if err := c.storage.SaveTournament(ctx, t); err != nil {
		c.logger.Error("failed to save tournament",
			slog.String("tournament_id", t.ID),
			slog.String("error", err.Error()),
		)
		return err
	}
	c.flush(ctx, t, out)
	return nil
}

func (c *Controller) flush(ctx context.Context, t *model.TournamentState, out *outbox) {
	if out == nil {
		return
	}
	for _, e := range out.events {
		c.events.Emit(ctx, e)
	}
	for _, m := range out.messages {
		c.display.Push(ctx, m)
	}
	if out.retract {
		c.scheduleRetraction(t)
	}
}

// load fetches a tournament, translating a lookup key into an id
func (c *Controller) load(ctx context.Context, id string) (*model.TournamentState, error) {
	t, err := c.storage.GetTournament(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrTournamentNotFound) {
			c.logger.Error("failed to load tournament",
				slog.String("tournament_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	return t, nil
}

func (c *Controller) newEvent(t *model.TournamentState, typ model.EventType, payload any) model.Event {
	return model.Event{
		Source:       model.EventSource,
		Type:         typ,
		TournamentID: t.ID,
		Timestamp:    c.clock.Now(),
		Payload:      payload,
	}
}

// updateMessage builds the normalized display snapshot for a tournament
func updateMessage(t *model.TournamentState) model.DisplayMessage {
	snapshot := t.Clone()
	return model.DisplayMessage{
		Type:            model.DisplayUpdate,
		OverlayInstance: t.OverlayInstance,
		Config: model.DisplayConfig{
			TournamentID:    t.ID,
			TournamentTitle: t.Data.Title,
			TournamentData:  &snapshot.Data,
			Styles:          snapshot.Data.Styles,
			Settings:        &snapshot.Data.Settings,
			Position:        t.Position,
			CustomCoords:    snapshot.CustomCoords,
			Ended:           t.Ended,
		},
	}
}

func controlMessage(t *model.TournamentState, typ model.DisplayMessageType) model.DisplayMessage {
	return model.DisplayMessage{
		Type:            typ,
		OverlayInstance: t.OverlayInstance,
		Config: model.DisplayConfig{
			TournamentID:    t.ID,
			TournamentTitle: t.Data.Title,
		},
	}
}

// CreateParams describes a tournament to create or reconfigure
type CreateParams struct {
	Title           string
	Players         []string
	Settings        *model.Settings
	Styles          map[string]string
	Position        string
	CustomCoords    *model.Coords
	OverlayInstance string
	// ResetOnLoad reseeds an existing active tournament instead of keeping its progress
	ResetOnLoad bool
}

// CreateTournament creates a tournament from a title, or reconfigures the
// existing one with the same id. An ended tournament is backed up and
// replaced by a fresh one.
func (c *Controller) CreateTournament(ctx context.Context, params CreateParams) (*model.TournamentState, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, model.ErrInvalidTitle
	}
	settings := model.DefaultSettings()
	if params.Settings != nil {
		settings = *params.Settings
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	id := IDFromTitle(title)
	unlock := c.locks.Lock(id)
	defer unlock()

	existing, err := c.storage.GetTournament(ctx, id)
	switch {
	case errors.Is(err, model.ErrTournamentNotFound):
		existing = nil
	case err != nil:
		return nil, err
	}

	if existing != nil && existing.Ended {
		if err := c.backupLocked(ctx, existing); err != nil {
			return nil, err
		}
		c.logger.Info("ended tournament archived before recreation",
			slog.String("tournament_id", id),
		)
		existing = nil
	}

	if existing != nil {
		return c.reconfigureLocked(ctx, existing, params, settings)
	}

	now := c.clock.Now()
	t := &model.TournamentState{
		ID:   id,
		UUID: c.random.UUID(),
		Data: model.TournamentData{
			Title:        title,
			Players:      make(map[string]*model.Player),
			WinnersRound: 1,
			LosersRound:  1,
			BracketStage: initialStage(settings.Format),
			Settings:     settings,
			Styles:       params.Styles,
		},
		CreatedAt:       now,
		UpdatedAt:       now,
		Position:        model.PositionMiddle,
		CustomCoords:    params.CustomCoords,
		OverlayInstance: params.OverlayInstance,
	}
	if params.Position != "" {
		t.Position = c.resolvePosition(params.Position)
	}
	for _, name := range params.Players {
		if _, err := registerPlayer(&t.Data, name); err != nil {
			return nil, err
		}
	}

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}

	c.logger.Info("tournament created",
		slog.String("tournament_id", id),
		slog.String("format", string(settings.Format)),
		slog.Int("player_count", len(t.Data.Players)),
	)
	return t, nil
}

// reconfigureLocked applies creation parameters to an active tournament
func (c *Controller) reconfigureLocked(ctx context.Context, t *model.TournamentState, params CreateParams, settings model.Settings) (*model.TournamentState, error) {
	before := t.Clone()
	for _, name := range params.Players {
		if _, ok := t.Data.Players[strings.TrimSpace(name)]; ok {
			continue
		}
		if _, err := registerPlayer(&t.Data, name); err != nil {
			return nil, err
		}
	}
	if params.Styles != nil {
		t.Data.Styles = params.Styles
	}
	if params.Position != "" {
		t.Position = c.resolvePosition(params.Position)
	}
	if params.CustomCoords != nil {
		t.CustomCoords = params.CustomCoords
	}
	if params.OverlayInstance != "" {
		t.OverlayInstance = params.OverlayInstance
	}

	formatChanged := t.Data.Settings.Format != settings.Format
	pointsChanged := t.Data.Settings.PointsChanged(settings)
	t.Data.Settings = settings

	if params.ResetOnLoad || formatChanged {
		release, ok := c.resets.TryLock(t.ID)
		if !ok {
			return nil, model.ErrResetInProgress
		}
		defer release()
		if err := c.resetWithUndoLocked(ctx, t, before); err != nil {
			return nil, err
		}
		return t, nil
	}

	if pointsChanged && settings.Format == model.FormatRoundRobin {
		RecalculateStandings(&t.Data)
	}
	t.UpdatedAt = c.clock.Now()

	out := &outbox{}
	out.push(updateMessage(t))
	if err := c.commit(ctx, t, out); err != nil {
		return nil, err
	}
	return t, nil
}

func initialStage(f model.Format) model.Stage {
	if f == model.FormatRoundRobin {
		return model.StageRoundRobin
	}
	return model.StageWinners
}

// GetTournament retrieves a tournament by id
func (c *Controller) GetTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	return c.load(ctx, id)
}

// TournamentExists reports whether a live tournament has the given id
func (c *Controller) TournamentExists(ctx context.Context, id string) (bool, error) {
	return c.storage.TournamentExists(ctx, id)
}

// ListTournaments returns a summary of every live tournament
func (c *Controller) ListTournaments(ctx context.Context) ([]model.Summary, error) {
	all, err := c.storage.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Summary, 0, len(all))
	for _, t := range all {
		status := "active"
		if t.Ended {
			status = "ended"
		}
		out = append(out, model.Summary{ID: t.ID, Title: t.Data.Title, Status: status})
	}
	return out, nil
}

// ListActive returns the ids of tournaments that have not ended
func (c *Controller) ListActive(ctx context.Context) ([]string, error) {
	return c.listIDs(ctx, false)
}

// ListEnded returns the ids of tournaments that have ended
func (c *Controller) ListEnded(ctx context.Context) ([]string, error) {
	return c.listIDs(ctx, true)
}

func (c *Controller) listIDs(ctx context.Context, ended bool) ([]string, error) {
	all, err := c.storage.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, t := range all {
		if t.Ended == ended {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// CurrentMatch returns the first open match
func (c *Controller) CurrentMatch(ctx context.Context, id string) (*model.Match, error) {
	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(t.Data.CurrentMatches) == 0 {
		return nil, model.ErrNoOpenMatch
	}
	return t.Data.CurrentMatches[0], nil
}

// Status returns the human readable progress line for a tournament
func (c *Controller) Status(ctx context.Context, id string) (string, error) {
	t, err := c.load(ctx, id)
	if err != nil {
		return "", err
	}
	return StatusText(t), nil
}

// Standings returns the ordered round-robin table
func (c *Controller) Standings(ctx context.Context, id string) ([]StandingRow, error) {
	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return OrderedStandings(&t.Data), nil
}

// DisplaySnapshot returns the update messages a newly connected display
// instance needs: every visible tournament that has not ended and targets it
func (c *Controller) DisplaySnapshot(ctx context.Context, instance string) ([]model.DisplayMessage, error) {
	all, err := c.storage.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.DisplayMessage
	for _, t := range all {
		if t.Ended || t.Hidden || t.OverlayInstance != instance {
			continue
		}
		out = append(out, updateMessage(t))
	}
	return out, nil
}
