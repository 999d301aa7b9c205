package native

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dejunga/steamAchievementUnlocker/steam"
)

// Cooldown between targets: the Steam client needs a quiescent period to
// release its per-process global state before the next connection.
const targetCooldown = 1 * time.Second

// Summary aggregates the per-target outcomes of a batch run.
type Summary struct {
	Succeeded     int
	Failed        int
	Skipped       int
	Unlocked      int
	WriteFailures int
}

// Orchestrator drives one session per target, strictly sequentially: the
// next session is never opened before the previous one's Close returns.
// This is a hard resource-sharing rule, not an optimization.
type Orchestrator struct {
	Provider BackendProvider
	SteamID  uint64

	// Cooldown between targets; defaults to targetCooldown.
	Cooldown time.Duration
	Session  SessionOptions

	// sleep is overridable in tests.
	sleep func(time.Duration)
}

// Run processes every game in order. Targets with no eligible changes are
// skipped without opening a session; a failed target is recorded and the
// batch continues, except when the native library cannot be located at all,
// which aborts the run. Outcomes accumulated before a context cancellation
// are preserved in the returned summary.
func (o *Orchestrator) Run(ctx context.Context, games []steam.Game) (Summary, error) {
	var sum Summary

	sleep := o.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	cooldown := o.Cooldown
	if cooldown <= 0 {
		cooldown = targetCooldown
	}

	for i, game := range games {
		if err := ctx.Err(); err != nil {
			log.Warn("Batch interrupted, keeping completed outcomes")
			return sum, err
		}

		entry := log.WithField("app_id", game.AppID)
		changes := EligibleChanges(&game)
		if len(changes) == 0 {
			entry.Infof("[%d/%d] Skipping %s: nothing eligible to unlock", i+1, len(games), game.Name)
			sum.Skipped++
			continue
		}

		entry.Infof("[%d/%d] Processing %s: %d achievements to unlock", i+1, len(games), game.Name, len(changes))

		applied, failed, err := o.processTarget(game.AppID, changes)
		sum.Unlocked += applied
		sum.WriteFailures += failed

		switch {
		case errors.Is(err, ErrLibraryNotFound):
			// No native runtime anywhere: fatal for the whole batch.
			sum.Failed++
			return sum, err
		case err != nil:
			entry.WithError(err).Warnf("Failed to process %s", game.Name)
			sum.Failed++
		default:
			entry.Infof("Unlocked %d/%d achievements", applied, len(changes))
			sum.Succeeded++
		}

		if i < len(games)-1 {
			sleep(cooldown)
		}
	}

	return sum, nil
}

// processTarget opens a session, runs the stats handshake, applies every
// change, and always closes the session before returning.
func (o *Orchestrator) processTarget(appID uint32, changes []ChangeRequest) (applied, failed int, err error) {
	s, err := Open(o.Provider, appID, o.Session)
	if err != nil {
		return 0, 0, err
	}
	defer s.Close()

	if err := s.RequestStats(o.SteamID); err != nil {
		return 0, 0, err
	}

	for _, req := range changes {
		out := s.Apply(req)
		if out.Applied {
			applied++
		} else {
			failed++
			log.WithError(out.Err).Warnf("Failed to apply %q", req.AchievementID)
		}
	}

	return applied, failed, nil
}

// EligibleChanges selects the locked, unprotected achievements of a game
// for unlock.
func EligibleChanges(game *steam.Game) []ChangeRequest {
	var changes []ChangeRequest
	for i := range game.Achievements {
		a := &game.Achievements[i]
		if a.Locked() && !a.Protected {
			changes = append(changes, ChangeRequest{AchievementID: a.APIName, Unlock: true})
		}
	}
	return changes
}
