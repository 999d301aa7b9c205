package native

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSetsAndClearsEnvMarker(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)

	v, set := os.LookupEnv(appIDEnvVar)
	assert.True(t, set)
	assert.Equal(t, "440", v)

	s.Close()

	_, set = os.LookupEnv(appIDEnvVar)
	assert.False(t, set, "%s must be cleared on close", appIDEnvVar)
}

func TestOpenLibraryNotFound(t *testing.T) {
	p := &fakeProvider{err: ErrLibraryNotFound}

	_, err := Open(p, 440, fastOptions)

	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, StageLocate, initErr.Stage)
	assert.ErrorIs(t, err, ErrLibraryNotFound)

	// Failed opens must release the singleton and the env marker.
	_, set := os.LookupEnv(appIDEnvVar)
	assert.False(t, set)
	assert.False(t, sessionActive.Load())
}

func TestOpenStageFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		wire  func(b *fakeBackend)
		stage Stage
	}{
		{"client", func(b *fakeBackend) { b.bindErr = boom }, StageClient},
		{"pipe", func(b *fakeBackend) { b.pipeErr = boom }, StagePipe},
		{"user", func(b *fakeBackend) { b.userErr = boom }, StageUser},
		{"userstats", func(b *fakeBackend) { b.userStatsErr = boom }, StageUserStats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []string
			p := &fakeProvider{events: &events}
			p.wire = tt.wire

			_, err := Open(p, 440, fastOptions)

			var initErr *InitError
			require.ErrorAs(t, err, &initErr)
			assert.Equal(t, tt.stage, initErr.Stage)
			assert.ErrorIs(t, err, boom)

			// The partially opened backend still gets shut down.
			require.Len(t, p.backends, 1)
			assert.Equal(t, 1, p.backends[0].shutdowns)
			assert.False(t, sessionActive.Load())
		})
	}
}

func TestOpenRejectsOverlap(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(p, 570, fastOptions)
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Equal(t, 1, p.calls, "overlapping open must not construct a backend")
}

func TestSessionFullFlow(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, StateInterfaceBound, s.State())

	require.NoError(t, s.RequestStats(76561198000000000))
	assert.Equal(t, StateStatsReady, s.State())

	out := s.Apply(ChangeRequest{AchievementID: "ACH_WIN", Unlock: true})
	assert.True(t, out.Applied)
	assert.NoError(t, out.Err)

	out = s.Apply(ChangeRequest{AchievementID: "ACH_LOSE", Unlock: false})
	assert.True(t, out.Applied)

	b := p.backends[0]
	assert.Equal(t, []string{"ACH_WIN"}, b.setCalls)
	assert.Equal(t, []string{"ACH_LOSE"}, b.clearCalls)
	assert.Equal(t, 2, b.storeCalls, "every apply flushes")
}

func TestApplyBeforeStatsReady(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	defer s.Close()

	out := s.Apply(ChangeRequest{AchievementID: "ACH_WIN", Unlock: true})

	assert.False(t, out.Applied)
	assert.ErrorIs(t, out.Err, ErrStatsNotReady)

	b := p.backends[0]
	assert.Empty(t, b.setCalls, "no native write before the handshake completes")
	assert.Empty(t, b.clearCalls)
	assert.Zero(t, b.storeCalls)
}

func TestApplyWriteRejected(t *testing.T) {
	p := &fakeProvider{}
	p.wire = func(b *fakeBackend) { b.storeOK = false }

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.RequestStats(1))

	out := s.Apply(ChangeRequest{AchievementID: "ACH_WIN", Unlock: true})

	assert.False(t, out.Applied)
	assert.ErrorIs(t, out.Err, ErrWriteRejected)
}

func TestRequestStatsTimeout(t *testing.T) {
	p := &fakeProvider{}
	p.wire = func(b *fakeBackend) { b.readyAfter = 0 }

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	defer s.Close()

	err = s.RequestStats(1)
	assert.ErrorIs(t, err, ErrStatsUnavailable)
	assert.Equal(t, StateFailed, s.State())

	out := s.Apply(ChangeRequest{AchievementID: "ACH_WIN", Unlock: true})
	assert.ErrorIs(t, out.Err, ErrStatsNotReady)
}

func TestRequestStatsRequiresBoundInterface(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)
	require.NoError(t, s.RequestStats(1))

	// Already past InterfaceBound.
	assert.Error(t, s.RequestStats(1))
	s.Close()
}

func TestCloseIdempotent(t *testing.T) {
	p := &fakeProvider{}

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)

	s.Close()
	s.Close()
	s.Close()

	assert.Equal(t, 1, p.backends[0].shutdowns, "shutdown must run exactly once")
	assert.Equal(t, StateClosed, s.State())
	assert.False(t, sessionActive.Load())
}

func TestCloseSurvivesShutdownPanic(t *testing.T) {
	p := &fakeProvider{}
	p.wire = func(b *fakeBackend) { b.shutdownPanic = true }

	s, err := Open(p, 440, fastOptions)
	require.NoError(t, err)

	assert.NotPanics(t, s.Close)
	assert.Equal(t, StateClosed, s.State())
	assert.False(t, sessionActive.Load())

	_, set := os.LookupEnv(appIDEnvVar)
	assert.False(t, set)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "Uninitialized", StateUninitialized.String())
	assert.Equal(t, "StatsReady", StateStatsReady.String())
	assert.Equal(t, "Closed", StateClosed.String())
	assert.Equal(t, "200", State(200).String())
}
