//go:build !windows

package steam

// IsClientRunning always reports false off Windows.
func IsClientRunning() bool { return false }
