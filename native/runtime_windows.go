//go:build windows

package native

import (
	"fmt"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// nativeInvoke calls a native function pointer with the platform default
// calling convention (both steamclient and steam_api use it on win64).
func nativeInvoke(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := syscall.SyscallN(fn, args...)
	return r1
}

// NewBackend loads the library (cached across calls) and selects the
// calling convention by inspecting its exports. The flat shim is preferred
// when its init export both resolves and succeeds; otherwise the raw client
// interface is used.
func (r *Runtime) NewBackend() (Backend, error) {
	lib, err := r.Locator.Locate()
	if err != nil {
		return nil, err
	}

	if lib.hasProc(flatInitExport) {
		b, err := newFlatBackend(lib)
		if err == nil {
			if err = b.BindClient(); err == nil {
				log.Infof("Using flat steam_api exports from %s", lib.Path)
				return b, nil
			}
		}
		log.WithError(err).Warn("steam_api initialization failed, falling back to raw client dispatch")
	}

	b, err := newVTableBackend(lib)
	if err != nil {
		return nil, err
	}

	log.Infof("Using raw client interface dispatch from %s", lib.Path)
	return b, nil
}

func newFlatBackend(lib *Library) (*FlatBackend, error) {
	b := &FlatBackend{lib: lib, invoke: nativeInvoke}

	required := []struct {
		name string
		dst  *uintptr
	}{
		{flatInitExport, &b.procs.initSafe},
		{flatUserStatsExport, &b.procs.userStats},
		{flatRequestUserStatsExport, &b.procs.requestUserStats},
		{flatSetAchievementExport, &b.procs.setAchievement},
		{flatClearAchievementExport, &b.procs.clearAchievement},
		{flatStoreStatsExport, &b.procs.storeStats},
		{flatShutdownExport, &b.procs.shutdown},
	}
	for _, exp := range required {
		addr, err := lib.proc(exp.name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterfaceResolution, err)
		}
		*exp.dst = addr
	}

	// Optional exports; the backend degrades gracefully without them.
	b.procs.runCallbacks, _ = lib.proc(flatRunCallbacksExport)
	b.procs.getAchievement, _ = lib.proc(flatGetAchievementExport)

	return b, nil
}

func newVTableBackend(lib *Library) (*VTableBackend, error) {
	addr, err := lib.proc("CreateInterface")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterfaceResolution, err)
	}

	return &VTableBackend{lib: lib, createInterface: addr, invoke: nativeInvoke}, nil
}
