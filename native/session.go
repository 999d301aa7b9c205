package native

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Environment variable the Steam client reads to know which app's data a
// connection operates on. Set before the backend binds, cleared on close;
// it must never be left set after a session ends.
const appIDEnvVar = "SteamAppId"

// State tracks a session's lifecycle.
type State uint8

const (
	StateUninitialized State = iota
	StateLibraryBound
	StateInterfaceBound
	StateStatsRequested
	StateStatsReady
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLibraryBound:
		return "LibraryBound"
	case StateInterfaceBound:
		return "InterfaceBound"
	case StateStatsRequested:
		return "StatsRequested"
	case StateStatsReady:
		return "StatsReady"
	case StateClosed:
		return "Closed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprint(uint8(s))
	}
}

// The Steam client permits exactly one active connection per process, and
// overlapping sessions corrupt its global state silently. sessionActive
// backs that invariant: Open fails fast instead of risking the overlap.
var sessionActive atomic.Bool

// ChangeRequest asks for one achievement to be put into a desired state.
type ChangeRequest struct {
	AchievementID string
	Unlock        bool
}

// ChangeOutcome reports what happened to one requested change.
type ChangeOutcome struct {
	AchievementID string
	Applied       bool
	Err           error
}

// SessionOptions tunes the stats handshake. Zero values use the defaults.
type SessionOptions struct {
	StatsTimeout time.Duration
	PollInterval time.Duration
}

// Session owns the one exclusive binding to the Steam client for one app
// id. All native-call failures are caught here and converted to typed
// outcomes; callers never observe raw native failures.
type Session struct {
	appID   uint32
	backend Backend
	state   State
	hs      *handshake
	log     *log.Entry
}

// Open binds a fresh session for the given app id. The open sequence is:
// mark the app id in the environment, construct a backend (loading the
// library on first use), bind the client interface, create the pipe,
// connect the logged-in user, and bind the user-stats interface. A failure
// at any step cleans up and reports the stage that failed.
func Open(provider BackendProvider, appID uint32, opts SessionOptions) (*Session, error) {
	if !sessionActive.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	s := &Session{
		appID: appID,
		state: StateUninitialized,
		hs:    newHandshake(opts.StatsTimeout, opts.PollInterval),
		log:   log.WithField("app_id", appID),
	}

	if err := os.Setenv(appIDEnvVar, strconv.FormatUint(uint64(appID), 10)); err != nil {
		s.Close()
		return nil, &InitError{Stage: StageLocate, Err: err}
	}

	fail := func(stage Stage, err error) (*Session, error) {
		s.state = StateFailed
		s.Close()
		return nil, &InitError{Stage: stage, Err: err}
	}

	backend, err := provider.NewBackend()
	if err != nil {
		if errors.Is(err, ErrLibraryNotFound) {
			return fail(StageLocate, err)
		}
		return fail(StageBackend, err)
	}
	s.backend = backend
	s.state = StateLibraryBound
	s.log = s.log.WithField("backend", backend.Kind())

	if err := backend.BindClient(); err != nil {
		return fail(StageClient, err)
	}
	if err := backend.CreatePipe(); err != nil {
		return fail(StagePipe, err)
	}
	if err := backend.ConnectUser(); err != nil {
		return fail(StageUser, err)
	}
	if err := backend.BindUserStats(); err != nil {
		return fail(StageUserStats, err)
	}

	s.state = StateInterfaceBound
	s.log.Debug("Session open")
	return s, nil
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// RequestStats runs the stats handshake to completion: request, then poll
// until the stats arrive or the deadline passes. Achievement writes are
// only valid after this succeeds.
func (s *Session) RequestStats(steamID uint64) error {
	if s.state != StateInterfaceBound {
		return fmt.Errorf("native: stats request invalid in state %s", s.state)
	}

	if err := s.hs.request(s.backend, steamID); err != nil {
		s.state = StateFailed
		return err
	}
	s.state = StateStatsRequested

	if err := s.hs.pump(s.backend); err != nil {
		s.state = StateFailed
		return err
	}

	s.state = StateStatsReady
	s.log.Debug("User stats received")
	return nil
}

// Apply puts one achievement into its requested state and flushes. The
// flush is unconditional: the platform does not guarantee a local set
// persists remotely until stats are stored.
func (s *Session) Apply(req ChangeRequest) ChangeOutcome {
	if s.state != StateStatsReady {
		return ChangeOutcome{
			AchievementID: req.AchievementID,
			Err:           fmt.Errorf("%w: session state is %s", ErrStatsNotReady, s.state),
		}
	}

	var ok bool
	if req.Unlock {
		ok = s.backend.SetAchievement(req.AchievementID)
	} else {
		ok = s.backend.ClearAchievement(req.AchievementID)
	}
	stored := s.backend.StoreStats()

	if !ok || !stored {
		return ChangeOutcome{AchievementID: req.AchievementID, Err: ErrWriteRejected}
	}

	s.log.Infof("Achievement %q %s", req.AchievementID, changeVerb(req.Unlock))
	return ChangeOutcome{AchievementID: req.AchievementID, Applied: true}
}

// Close releases the native binding and clears the environment marker.
// Idempotent; cleanup failures are logged and swallowed, because a
// half-closed native session is worse than a noisy one.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}

	if s.backend != nil {
		shutdownQuietly(s.backend, s.log)
	}

	if err := os.Unsetenv(appIDEnvVar); err != nil {
		s.log.WithError(err).Warnf("Failed to clear %s", appIDEnvVar)
	}

	s.state = StateClosed
	sessionActive.Store(false)
	s.log.Debug("Session closed")
}

func shutdownQuietly(b Backend, entry *log.Entry) {
	defer func() {
		if r := recover(); r != nil {
			entry.Errorf("Panic during native shutdown: %v", r)
		}
	}()

	b.Shutdown()
}

func changeVerb(unlock bool) string {
	if unlock {
		return "unlocked"
	}
	return "locked"
}
