package steam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAchievementLocked(t *testing.T) {
	a := Achievement{APIName: "ACH_A"}
	assert.True(t, a.Locked())

	a.Achieved = 1
	assert.False(t, a.Locked())
}

func TestGameLockedCount(t *testing.T) {
	g := Game{
		Achievements: []Achievement{
			{APIName: "ACH_A"},
			{APIName: "ACH_B", Achieved: 1},
			{APIName: "ACH_C"},
		},
	}

	assert.Equal(t, 2, g.LockedCount())
	assert.Zero(t, (&Game{}).LockedCount())
}
