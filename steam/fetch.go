package steam

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Default number of concurrent achievement fetches against the Web API.
// The workers own no native handles, so unlike the unlock batch this part
// may run in parallel freely.
const defaultFetchWorkers = 8

// Default checkpoint cadence, in completed games.
const defaultCheckpointEvery = 100

// ScanOptions tunes a library scan. Zero values use the defaults.
type ScanOptions struct {
	Workers         int
	CheckpointEvery int

	// Checkpoint, when set, is called with the in-progress library every
	// CheckpointEvery completed games so an interrupted scan loses little.
	// Called with the results lock held; keep it quick.
	Checkpoint func(*Library) error
}

// ScanLibrary fetches the user's owned games and keeps those with at least
// one locked achievement. A cancelled context returns the partial library
// along with the context error.
func ScanLibrary(ctx context.Context, c *Client, steamID string, opts ScanOptions) (*Library, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultFetchWorkers
	}
	every := opts.CheckpointEvery
	if every <= 0 {
		every = defaultCheckpointEvery
	}

	games, err := c.GetOwnedGames(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("get owned games: %w", err)
	}
	log.Infof("Scanning %d owned games for locked achievements", len(games))

	lib := &Library{SteamID: steamID}
	var mu sync.Mutex
	var done int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, game := range games {
		game := game
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			achievements, err := c.GetPlayerAchievements(gctx, steamID, game.AppID)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// One unreachable app should not sink the whole scan.
				log.WithError(err).Warnf("Failed to fetch achievements for %s (%d)", game.Name, game.AppID)
			}

			mu.Lock()
			defer mu.Unlock()
			done++

			if hasLocked(achievements) {
				lib.Games = append(lib.Games, Game{
					AppID:           game.AppID,
					Name:            game.Name,
					PlaytimeForever: game.PlaytimeForever,
					Achievements:    achievements,
				})
			}

			if done%every == 0 {
				log.Infof("Progress: %d/%d games scanned, %d with locked achievements",
					done, len(games), len(lib.Games))
				if opts.Checkpoint != nil {
					lib.TotalGames = len(lib.Games)
					if err := opts.Checkpoint(lib); err != nil {
						log.WithError(err).Warn("Failed to write scan checkpoint")
					}
				}
			}

			return nil
		})
	}

	err = g.Wait()

	// Completion order is scheduling noise; keep the snapshot stable.
	sort.Slice(lib.Games, func(i, j int) bool { return lib.Games[i].AppID < lib.Games[j].AppID })
	lib.TotalGames = len(lib.Games)

	if err != nil {
		return lib, err
	}
	return lib, nil
}

func hasLocked(achievements []Achievement) bool {
	for i := range achievements {
		if achievements[i].Locked() {
			return true
		}
	}
	return false
}
