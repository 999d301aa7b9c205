//go:build windows

package native

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

func loadLibrary(path string) (*Library, error) {
	// The chosen binary may have satellite dependencies beside it.
	if err := windows.SetDllDirectory(filepath.Dir(path)); err != nil {
		log.WithError(err).Warn("Failed to set DLL search directory")
	}

	handle, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	return &Library{Path: path, handle: uintptr(handle)}, nil
}

// proc resolves a named export of the loaded module.
func (lib *Library) proc(name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(lib.handle), name)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", name, err)
	}
	return addr, nil
}

func (lib *Library) hasProc(name string) bool {
	_, err := lib.proc(name)
	return err == nil
}
