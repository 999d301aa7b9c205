//go:build windows

package steam

import (
	"path"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// The Steam client executable (and process) name.
const clientExeName = "steam.exe"

// IsClientRunning reports whether the Steam client process is alive. The
// native interfaces only work against a running, logged-in client.
func IsClientRunning() bool {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(snapshot) //nolint:errcheck

	entry := &windows.ProcessEntry32{
		Size: uint32(unsafe.Sizeof(windows.ProcessEntry32{})),
	}
	if err = windows.Process32First(snapshot, entry); err != nil {
		return false
	}

	// Loop through all process entries until we find
	// one with an image name matching the client's.
	for {
		if strings.EqualFold(path.Base(windows.UTF16ToString(entry.ExeFile[:])), clientExeName) {
			return true
		}
		if windows.Process32Next(snapshot, entry) != nil {
			return false
		}
	}
}
