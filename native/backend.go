package native

import "fmt"

// Kind discriminates the two calling conventions the Steam native runtime
// exposes, chosen once per loaded library.
type Kind uint8

const (
	// KindFlatExport calls pre-typed exported entry points by name
	// (the steam_api shim library).
	KindFlatExport Kind = iota + 1

	// KindVTable walks interface objects' function-pointer tables by
	// numeric slot (the full steamclient library).
	KindVTable
)

func (k Kind) String() string {
	switch k {
	case KindFlatExport:
		return "FlatExport"
	case KindVTable:
		return "VTable"
	default:
		return fmt.Sprint(uint8(k))
	}
}

// Backend is the calling-convention-neutral surface of the native runtime.
// Both variants implement every step of the session open sequence; steps a
// variant does not need (the flat shim manages its own pipe) are no-ops.
type Backend interface {
	Kind() Kind

	// BindClient binds the top-level client interface. For the flat shim
	// this initializes the Steam API; for the raw client it probes
	// CreateInterface for a known interface version.
	BindClient() error

	// CreatePipe opens the communication pipe to the Steam client.
	CreatePipe() error

	// ConnectUser attaches the pipe to the logged-in local user.
	ConnectUser() error

	// BindUserStats binds the user-stats sub-interface used for all
	// achievement reads and writes.
	BindUserStats() error

	// RequestStats asks the Steam client to fetch the user's remote stats
	// for the active app. Completion is asynchronous; poll with PollReady.
	RequestStats(steamID uint64) error

	// PollReady dispatches pending callbacks (if the backend has a pump)
	// and reports whether the requested stats have arrived. Backends with
	// no completion signal report true once their settle delay elapses.
	PollReady() bool

	// GetAchievement reads the current unlock state of one achievement.
	// ok is false when the read itself was rejected.
	GetAchievement(name string) (achieved, ok bool)

	SetAchievement(name string) bool
	ClearAchievement(name string) bool

	// StoreStats flushes pending achievement changes to the Steam servers.
	// A local set does not persist remotely until stats are stored.
	StoreStats() bool

	// Shutdown releases the binding. Must be safe to call at any point
	// after construction, including after a partial open.
	Shutdown()
}

// BackendProvider constructs a backend bound to the native runtime for the
// app id currently marked in the process environment.
type BackendProvider interface {
	NewBackend() (Backend, error)
}
