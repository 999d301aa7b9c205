package native

import (
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// Export that marks a library as the flat steam_api shim. Backend selection
// keys off its presence.
const flatInitExport = "SteamAPI_InitSafe"

// Exported entry points the flat backend needs.
const (
	flatUserStatsExport        = "SteamAPI_SteamUserStats_v013"
	flatRequestUserStatsExport = "SteamAPI_ISteamUserStats_RequestUserStats"
	flatGetAchievementExport   = "SteamAPI_ISteamUserStats_GetAchievement"
	flatSetAchievementExport   = "SteamAPI_ISteamUserStats_SetAchievement"
	flatClearAchievementExport = "SteamAPI_ISteamUserStats_ClearAchievement"
	flatStoreStatsExport       = "SteamAPI_ISteamUserStats_StoreStats"
	flatRunCallbacksExport     = "SteamAPI_RunCallbacks"
	flatShutdownExport         = "SteamAPI_Shutdown"
)

// flatProcs holds the resolved export addresses. Optional entries
// (run-callbacks, get-achievement) may be zero.
type flatProcs struct {
	initSafe         uintptr
	userStats        uintptr
	requestUserStats uintptr
	getAchievement   uintptr
	setAchievement   uintptr
	clearAchievement uintptr
	storeStats       uintptr
	runCallbacks     uintptr
	shutdown         uintptr
}

// FlatBackend drives the steam_api shim through its exported, pre-typed
// entry points. The shim owns the pipe and user connection internally, so
// CreatePipe and ConnectUser are no-ops.
type FlatBackend struct {
	lib    *Library
	procs  flatProcs
	invoke func(fn uintptr, args ...uintptr) uintptr

	initialized bool
	userStats   uintptr

	requestedAt time.Time
}

func (b *FlatBackend) Kind() Kind { return KindFlatExport }

// BindClient initializes the Steam API. Idempotent: backend selection may
// already have initialized it to prove the shim works.
func (b *FlatBackend) BindClient() error {
	if b.initialized {
		return nil
	}
	if b.invoke(b.procs.initSafe) == 0 {
		return fmt.Errorf("%w: %s returned false", ErrInterfaceResolution, flatInitExport)
	}

	b.initialized = true
	return nil
}

func (b *FlatBackend) CreatePipe() error  { return nil }
func (b *FlatBackend) ConnectUser() error { return nil }

func (b *FlatBackend) BindUserStats() error {
	stats := b.invoke(b.procs.userStats)
	if stats == 0 {
		return fmt.Errorf("%w: no user stats accessor", ErrInterfaceResolution)
	}

	b.userStats = stats
	return nil
}

func (b *FlatBackend) RequestStats(steamID uint64) error {
	handle := b.invoke(b.procs.requestUserStats, b.userStats, uintptr(steamID))
	if handle == 0 {
		return fmt.Errorf("%w: RequestUserStats returned an invalid call handle", ErrInterfaceResolution)
	}

	log.Debugf("RequestUserStats call handle: %d", handle)
	b.requestedAt = time.Now()
	return nil
}

// PollReady pumps the callback queue, then reports ready once the settle
// delay has passed. Without a registered callback sink the API exposes no
// per-call completion flag, so elapsed time is the only signal available.
func (b *FlatBackend) PollReady() bool {
	if b.procs.runCallbacks != 0 {
		b.invoke(b.procs.runCallbacks)
	}
	return !b.requestedAt.IsZero() && time.Since(b.requestedAt) >= statsSettleDelay
}

func (b *FlatBackend) GetAchievement(name string) (achieved, ok bool) {
	if b.procs.getAchievement == 0 {
		return false, false
	}

	arg, buf := cstr(name)
	var state byte
	ret := b.invoke(b.procs.getAchievement, b.userStats, arg, byteOut(&state))
	runtime.KeepAlive(buf)
	runtime.KeepAlive(&state)

	return state != 0, ret != 0
}

func (b *FlatBackend) SetAchievement(name string) bool {
	return b.write(b.procs.setAchievement, name)
}

func (b *FlatBackend) ClearAchievement(name string) bool {
	return b.write(b.procs.clearAchievement, name)
}

func (b *FlatBackend) StoreStats() bool {
	return b.invoke(b.procs.storeStats, b.userStats) != 0
}

func (b *FlatBackend) Shutdown() {
	if !b.initialized {
		return
	}

	b.invoke(b.procs.shutdown)
	b.initialized = false
	b.userStats = 0
	log.Debug("Steam API shut down")
}

func (b *FlatBackend) write(fn uintptr, name string) bool {
	arg, buf := cstr(name)
	ret := b.invoke(fn, b.userStats, arg)
	runtime.KeepAlive(buf)
	return ret != 0
}

var _ Backend = (*FlatBackend)(nil)
