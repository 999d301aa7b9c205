package steam

// Achievement is one achievement's recorded state for the scanned user.
type Achievement struct {
	APIName     string `json:"apiname"`
	Achieved    int    `json:"achieved"`
	UnlockTime  int64  `json:"unlocktime"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Protected marks achievements the stats schema flags as
	// server-granted; writing those from a client is rejected or worse.
	Protected bool `json:"protected,omitempty"`
}

// Locked reports whether the achievement has not been earned yet.
func (a *Achievement) Locked() bool { return a.Achieved == 0 }

// Game is one owned app with its achievement list.
type Game struct {
	AppID           uint32        `json:"appid"`
	Name            string        `json:"name"`
	PlaytimeForever int           `json:"playtime_forever"`
	Achievements    []Achievement `json:"achievements"`
}

// LockedCount returns how many achievements are still locked.
func (g *Game) LockedCount() int {
	n := 0
	for i := range g.Achievements {
		if g.Achievements[i].Locked() {
			n++
		}
	}
	return n
}

// Library is the persisted scan result consumed by the unlock batch. Only
// games with at least one locked achievement are kept.
type Library struct {
	SteamID    string `json:"steam_id"`
	TotalGames int    `json:"total_games_with_locked_achievements"`
	Games      []Game `json:"games"`
}
