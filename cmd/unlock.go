package cmd

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dejunga/steamAchievementUnlocker/native"
	"github.com/dejunga/steamAchievementUnlocker/steam"
)

var (
	onlyAppID uint32
	assumeYes bool
)

var unlockCmd = &cobra.Command{
	Use:                   "unlock [--app APPID] [--yes]",
	Short:                 "Unlock every eligible achievement recorded in the library snapshot",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lib, err := steam.LoadLibrary(dataFile)
		if err != nil {
			return fmt.Errorf("load library snapshot (run scan first): %w", err)
		}

		return doUnlock(cmd.Context(), lib)
	},
}

// doUnlock runs the batch against the snapshot, honoring the --app filter
// and the confirmation prompt.
func doUnlock(ctx context.Context, lib *steam.Library) error {
	steamID, err := strconv.ParseUint(lib.SteamID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad steam id in snapshot: %w", err)
	}

	games := lib.Games
	if onlyAppID != 0 {
		games = nil
		for _, game := range lib.Games {
			if game.AppID == onlyAppID {
				games = append(games, game)
			}
		}
		if len(games) == 0 {
			return fmt.Errorf("app %d is not in the snapshot", onlyAppID)
		}
	}

	if !assumeYes && !confirm("This will modify your Steam achievements. Proceed?") {
		log.Info("Cancelled")
		return nil
	}

	orch := &native.Orchestrator{
		Provider: &native.Runtime{
			Locator: native.Locator{InstallDir: steam.InstallDir},
		},
		SteamID: steamID,
	}

	summary, err := orch.Run(ctx, games)
	printSummary(summary)
	return err
}

func printSummary(sum native.Summary) {
	fmt.Println("==================================================")
	fmt.Println("BATCH UNLOCK SUMMARY")
	fmt.Println("==================================================")
	fmt.Printf("Successful games:              %d\n", sum.Succeeded)
	fmt.Printf("Failed games:                  %d\n", sum.Failed)
	fmt.Printf("Skipped games:                 %d\n", sum.Skipped)
	fmt.Printf("Total achievements unlocked:   %d\n", sum.Unlocked)
	if sum.WriteFailures > 0 {
		fmt.Printf("Rejected achievement writes:   %d\n", sum.WriteFailures)
	}
	fmt.Println("==================================================")
}

func init() {
	rootCmd.AddCommand(unlockCmd)

	unlockCmd.Flags().Uint32Var(
		&onlyAppID,
		"app",
		0,
		"only process this app id",
	)

	unlockCmd.Flags().BoolVarP(
		&assumeYes,
		"yes",
		"y",
		false,
		"skip the confirmation prompt",
	)
}
