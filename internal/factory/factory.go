package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/notify"
	"github.com/mcoot/tourney/internal/dependencies/random"
	"github.com/mcoot/tourney/internal/services/auth"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/storage"
	"github.com/mcoot/tourney/internal/storage/memory"
	redisstorage "github.com/mcoot/tourney/internal/storage/redis"
	"github.com/mcoot/tourney/internal/storage/sqlite"
	"github.com/mcoot/tourney/internal/web/live"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Controller  *tournament.Controller
	AuthService *auth.Service
	HubManager  *live.HubManager
	Broadcaster *live.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If SessionDuration is zero, auth.DefaultConfig() durations apply
	AuthConfig auth.Config
	// TournamentConfig holds engine timings (optional)
	TournamentConfig tournament.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}

	hubManager := live.NewHubManager(logger)
	broadcaster := live.NewBroadcaster(hubManager, logger)

	app := newWithDependencies(store, clk, rnd, broadcaster, broadcaster, authCfg, cfg.TournamentConfig, logger)
	app.HubManager = hubManager
	app.Broadcaster = broadcaster
	return app, nil
}

// newStorage opens the configured storage backend
func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	events notify.EventSink,
	display notify.Display,
	authCfg auth.Config,
	tournamentCfg tournament.Config,
	logger *slog.Logger,
) *App {
	controller := tournament.NewController(store, clk, rnd, events, display, logger, tournamentCfg)
	authService := auth.New(clk, authCfg)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Controller:  controller,
		AuthService: authService,
	}
}

// Close releases the storage backend and disconnects stream clients
func (a *App) Close() error {
	if a.HubManager != nil {
		a.HubManager.CloseAll()
	}
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
