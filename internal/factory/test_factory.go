package factory

import (
	"time"

	"github.com/mcoot/tourney/internal/dependencies/mocks"
	"github.com/mcoot/tourney/internal/dependencies/notify"
	"github.com/mcoot/tourney/internal/services/auth"
	"github.com/mcoot/tourney/internal/services/tournament"
	"github.com/mcoot/tourney/internal/storage/memory"
	"github.com/mcoot/tourney/internal/testutil"
	"github.com/mcoot/tourney/internal/web/live"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Recorder   *mocks.Recorder
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Notifications reach both the live hubs and the recorder.
func NewTestApp() *TestApp {
	return NewTestAppWithAuth(auth.DefaultConfig())
}

// NewTestAppWithAuth creates a test App with the given auth settings
func NewTestAppWithAuth(authCfg auth.Config) *TestApp {
	logger := testutil.NopLogger()
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	recorder := mocks.NewRecorder()

	hubManager := live.NewHubManager(logger)
	broadcaster := live.NewBroadcaster(hubManager, logger)
	fanout := &notify.Fanout{
		Sinks:    []notify.EventSink{broadcaster, recorder},
		Displays: []notify.Display{broadcaster, recorder},
	}

	app := newWithDependencies(store, mockClock, mockRandom, fanout, fanout, authCfg, tournament.DefaultConfig(), logger)
	app.HubManager = hubManager
	app.Broadcaster = broadcaster

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Recorder:   recorder,
	}
}
