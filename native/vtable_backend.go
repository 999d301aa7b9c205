package native

import (
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// VTableBackend drives the full steamclient library through raw
// function-pointer tables. The slot positions come from SlotMap data and are
// assumptions observed in the wild, not a published contract, so every
// return value is validated before it is trusted. All such casts are
// confined to this type and vtable.go; raw slot indices never leak out.
type VTableBackend struct {
	lib   *Library
	slots SlotMap

	// Address of the library's CreateInterface export.
	createInterface uintptr

	// invoke calls a native function pointer with the platform calling
	// convention. Overridable so dispatch is testable without native code.
	invoke func(fn uintptr, args ...uintptr) uintptr

	client    uintptr // ISteamClient
	pipe      uintptr // HSteamPipe
	user      uintptr // HSteamUser
	userStats uintptr // ISteamUserStats

	requestedAt time.Time
}

func (b *VTableBackend) Kind() Kind { return KindVTable }

// BindClient requests a client interface by probing known version names
// newest-first, keeping the slot map of the first version that resolves.
func (b *VTableBackend) BindClient() error {
	for _, m := range slotMaps {
		name, buf := cstr(m.ClientVersion)
		ptr := b.invoke(b.createInterface, name, 0)
		runtime.KeepAlive(buf)

		if ptr != 0 {
			b.client = ptr
			b.slots = m
			log.Infof("Created %s interface", m.ClientVersion)
			return nil
		}

		log.Debugf("Interface version %s not available", m.ClientVersion)
	}

	return fmt.Errorf("%w: no known SteamClient version accepted", ErrInterfaceResolution)
}

func (b *VTableBackend) CreatePipe() error {
	pipe, err := b.callClient(OpCreateSteamPipe)
	if err != nil {
		return err
	}
	if pipe == 0 {
		return fmt.Errorf("%w: CreateSteamPipe returned no pipe", ErrInterfaceResolution)
	}

	b.pipe = pipe
	log.Debugf("Created Steam pipe: %d", pipe)
	return nil
}

func (b *VTableBackend) ConnectUser() error {
	user, err := b.callClient(OpConnectToGlobalUser, b.pipe)
	if err != nil {
		return err
	}
	if user == 0 {
		return fmt.Errorf("%w: ConnectToGlobalUser returned no user", ErrInterfaceResolution)
	}

	b.user = user
	log.Debugf("Connected to global user: %d", user)
	return nil
}

func (b *VTableBackend) BindUserStats() error {
	name, buf := cstr(b.slots.StatsVersion)
	stats, err := b.callClient(OpGetUserStatsInterface, b.user, b.pipe, name)
	runtime.KeepAlive(buf)
	if err != nil {
		return err
	}
	if stats == 0 {
		return fmt.Errorf("%w: no %s interface", ErrInterfaceResolution, b.slots.StatsVersion)
	}

	b.userStats = stats
	return nil
}

func (b *VTableBackend) RequestStats(steamID uint64) error {
	ret, err := b.callStats(OpRequestUserStats, uintptr(steamID))
	if err != nil {
		return err
	}
	if ret == 0 {
		return fmt.Errorf("%w: RequestUserStats rejected", ErrInterfaceResolution)
	}

	b.requestedAt = time.Now()
	return nil
}

// PollReady always waits out the settle delay: the raw client interface has
// no callback pump, so there is nothing to poll beyond giving the client
// time to fetch the stats.
func (b *VTableBackend) PollReady() bool {
	return !b.requestedAt.IsZero() && time.Since(b.requestedAt) >= statsSettleDelay
}

func (b *VTableBackend) GetAchievement(name string) (achieved, ok bool) {
	arg, buf := cstr(name)
	var state byte
	ret, err := b.callStats(OpGetAchievement, arg, byteOut(&state))
	runtime.KeepAlive(buf)
	runtime.KeepAlive(&state)

	if err != nil {
		log.WithError(err).Debugf("GetAchievement(%s) dispatch failed", name)
		return false, false
	}
	return state != 0, ret != 0
}

func (b *VTableBackend) SetAchievement(name string) bool {
	return b.statsWrite(OpSetAchievement, name)
}

func (b *VTableBackend) ClearAchievement(name string) bool {
	return b.statsWrite(OpClearAchievement, name)
}

func (b *VTableBackend) StoreStats() bool {
	ret, err := b.callStats(OpStoreStats)
	if err != nil {
		log.WithError(err).Debug("StoreStats dispatch failed")
		return false
	}
	return ret != 0
}

// Shutdown releases the pipe. Safe after a partial open: unbound handles
// are simply skipped.
func (b *VTableBackend) Shutdown() {
	if b.client != 0 && b.pipe != 0 {
		if _, err := b.callClient(OpReleaseSteamPipe, b.pipe); err != nil {
			log.WithError(err).Warn("Failed to release Steam pipe")
		} else {
			log.Debug("Released Steam pipe")
		}
	}

	b.client, b.pipe, b.user, b.userStats = 0, 0, 0, 0
}

func (b *VTableBackend) statsWrite(op StatsOp, name string) bool {
	arg, buf := cstr(name)
	ret, err := b.callStats(op, arg)
	runtime.KeepAlive(buf)

	if err != nil {
		log.WithError(err).Debugf("%s(%s) dispatch failed", op, name)
		return false
	}
	return ret != 0
}

// callClient invokes a client-interface operation by its mapped slot.
func (b *VTableBackend) callClient(op ClientOp, args ...uintptr) (uintptr, error) {
	slot, ok := b.slots.ClientSlots[op]
	if !ok {
		return 0, fmt.Errorf("%w: no slot mapped for %s in %s",
			ErrInterfaceResolution, op, b.slots.ClientVersion)
	}

	fn, err := vtableSlot(b.client, slot, b.slots.ClientTableLen)
	if err != nil {
		return 0, err
	}

	return b.invoke(fn, prependThis(b.client, args)...), nil
}

// callStats invokes a user-stats operation by its mapped slot.
func (b *VTableBackend) callStats(op StatsOp, args ...uintptr) (uintptr, error) {
	slot, ok := b.slots.StatsSlots[op]
	if !ok {
		return 0, fmt.Errorf("%w: no slot mapped for %s in %s",
			ErrInterfaceResolution, op, b.slots.StatsVersion)
	}

	fn, err := vtableSlot(b.userStats, slot, b.slots.StatsTableLen)
	if err != nil {
		return 0, err
	}

	return b.invoke(fn, prependThis(b.userStats, args)...), nil
}

// prependThis puts the implicit receiver first, as the native calling
// convention expects for interface methods.
func prependThis(this uintptr, args []uintptr) []uintptr {
	return append([]uintptr{this}, args...)
}

var _ Backend = (*VTableBackend)(nil)
