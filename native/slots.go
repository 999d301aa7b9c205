package native

import "fmt"

// ClientOp is a logical operation on the top-level client interface.
type ClientOp uint8

const (
	OpCreateSteamPipe ClientOp = iota
	OpReleaseSteamPipe
	OpConnectToGlobalUser
	OpGetUserStatsInterface
)

func (op ClientOp) String() string {
	switch op {
	case OpCreateSteamPipe:
		return "CreateSteamPipe"
	case OpReleaseSteamPipe:
		return "BReleaseSteamPipe"
	case OpConnectToGlobalUser:
		return "ConnectToGlobalUser"
	case OpGetUserStatsInterface:
		return "GetISteamUserStats"
	default:
		return fmt.Sprint(uint8(op))
	}
}

// StatsOp is a logical operation on the user-stats interface.
type StatsOp uint8

const (
	OpRequestUserStats StatsOp = iota
	OpGetAchievement
	OpSetAchievement
	OpClearAchievement
	OpStoreStats
)

func (op StatsOp) String() string {
	switch op {
	case OpRequestUserStats:
		return "RequestUserStats"
	case OpGetAchievement:
		return "GetAchievement"
	case OpSetAchievement:
		return "SetAchievement"
	case OpClearAchievement:
		return "ClearAchievement"
	case OpStoreStats:
		return "StoreStats"
	default:
		return fmt.Sprint(uint8(op))
	}
}

// SlotMap records the observed vtable layout for one client interface
// version. The slot positions are reverse-engineered, not published, so they
// live here as data: supporting a new interface version means adding an
// entry, never touching dispatch code.
type SlotMap struct {
	// ClientVersion is the name passed to CreateInterface.
	ClientVersion string

	// StatsVersion is the user-stats interface version requested through
	// the client.
	StatsVersion string

	ClientSlots map[ClientOp]int
	StatsSlots  map[StatsOp]int

	// Assumed table sizes. Dispatch refuses any slot at or beyond these
	// bounds instead of dereferencing unknown memory.
	ClientTableLen int
	StatsTableLen  int
}

// slotMaps is ordered newest interface version first; BindClient probes them
// in order and keeps the first one the client accepts.
var slotMaps = []SlotMap{
	{
		ClientVersion: "SteamClient018",
		StatsVersion:  "STEAMUSERSTATS_INTERFACE_VERSION013",
		ClientSlots: map[ClientOp]int{
			OpCreateSteamPipe:       0,
			OpReleaseSteamPipe:      1,
			OpConnectToGlobalUser:   2,
			OpGetUserStatsInterface: 11,
		},
		StatsSlots: map[StatsOp]int{
			OpRequestUserStats: 0,
			OpGetAchievement:   1,
			OpSetAchievement:   2,
			OpClearAchievement: 3,
			OpStoreStats:       5,
		},
		ClientTableLen: 30,
		StatsTableLen:  50,
	},
	{
		ClientVersion: "SteamClient017",
		StatsVersion:  "STEAMUSERSTATS_INTERFACE_VERSION013",
		ClientSlots: map[ClientOp]int{
			OpCreateSteamPipe:       0,
			OpReleaseSteamPipe:      1,
			OpConnectToGlobalUser:   2,
			OpGetUserStatsInterface: 11,
		},
		StatsSlots: map[StatsOp]int{
			OpRequestUserStats: 0,
			OpGetAchievement:   1,
			OpSetAchievement:   2,
			OpClearAchievement: 3,
			OpStoreStats:       5,
		},
		ClientTableLen: 30,
		StatsTableLen:  50,
	},
}
