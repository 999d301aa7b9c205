package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotMapsOrderedNewestFirst(t *testing.T) {
	require.NotEmpty(t, slotMaps)

	assert.Equal(t, "SteamClient018", slotMaps[0].ClientVersion)
	assert.Equal(t, "SteamClient017", slotMaps[1].ClientVersion)
}

func TestSlotMapsWellFormed(t *testing.T) {
	clientOps := []ClientOp{
		OpCreateSteamPipe,
		OpReleaseSteamPipe,
		OpConnectToGlobalUser,
		OpGetUserStatsInterface,
	}
	statsOps := []StatsOp{
		OpRequestUserStats,
		OpGetAchievement,
		OpSetAchievement,
		OpClearAchievement,
		OpStoreStats,
	}

	for _, m := range slotMaps {
		m := m
		t.Run(m.ClientVersion, func(t *testing.T) {
			assert.NotEmpty(t, m.StatsVersion)
			assert.Positive(t, m.ClientTableLen)
			assert.Positive(t, m.StatsTableLen)

			for _, op := range clientOps {
				slot, ok := m.ClientSlots[op]
				require.True(t, ok, "client op %s has no slot", op)
				assert.GreaterOrEqual(t, slot, 0)
				assert.Less(t, slot, m.ClientTableLen, "client op %s out of bounds", op)
			}
			for _, op := range statsOps {
				slot, ok := m.StatsSlots[op]
				require.True(t, ok, "stats op %s has no slot", op)
				assert.GreaterOrEqual(t, slot, 0)
				assert.Less(t, slot, m.StatsTableLen, "stats op %s out of bounds", op)
			}
		})
	}
}

func TestKnownSlotPositions(t *testing.T) {
	m := slotMaps[0]

	assert.Equal(t, 0, m.ClientSlots[OpCreateSteamPipe])
	assert.Equal(t, 1, m.ClientSlots[OpReleaseSteamPipe])
	assert.Equal(t, 2, m.ClientSlots[OpConnectToGlobalUser])
	assert.Equal(t, 11, m.ClientSlots[OpGetUserStatsInterface])

	assert.Equal(t, 0, m.StatsSlots[OpRequestUserStats])
	assert.Equal(t, 1, m.StatsSlots[OpGetAchievement])
	assert.Equal(t, 2, m.StatsSlots[OpSetAchievement])
	assert.Equal(t, 3, m.StatsSlots[OpClearAchievement])
	assert.Equal(t, 5, m.StatsSlots[OpStoreStats])
}

func TestOpStrings(t *testing.T) {
	assert.Equal(t, "GetISteamUserStats", OpGetUserStatsInterface.String())
	assert.Equal(t, "BReleaseSteamPipe", OpReleaseSteamPipe.String())
	assert.Equal(t, "StoreStats", OpStoreStats.String())
	assert.Equal(t, "99", StatsOp(99).String())
}
