package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dejunga/steamAchievementUnlocker/steam"
)

var scanCmd = &cobra.Command{
	Use:                   "scan",
	Short:                 "Scan the Steam library for games with locked achievements",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiKey, steamID, err := loadCredentials()
		if err != nil {
			return err
		}

		_, err = doScan(cmd.Context(), apiKey, steamID)
		return err
	},
}

// doScan fetches the library, marks protected achievements, and saves the
// snapshot. A partial library from an interrupted scan is still saved.
func doScan(ctx context.Context, apiKey, steamID string) (*steam.Library, error) {
	client := steam.NewClient(apiKey)

	if summary, err := client.GetPlayerSummary(ctx, steamID); err != nil {
		log.WithError(err).Warn("Failed to fetch player summary")
	} else {
		log.Infof("Scanning library of %s (%s)", summary.PersonaName, summary.SteamID)
	}

	lib, scanErr := steam.ScanLibrary(ctx, client, steamID, steam.ScanOptions{
		Checkpoint: func(lib *steam.Library) error {
			return steam.SaveLibrary(dataFile, lib)
		},
	})

	if lib != nil && len(lib.Games) > 0 {
		if installDir, err := steam.InstallDir(); err == nil {
			steam.MarkProtected(lib, installDir)
		} else {
			log.WithError(err).Debug("Skipping protection probe")
		}

		if err := steam.SaveLibrary(dataFile, lib); err != nil {
			return lib, err
		}
		log.Infof("Saved %d games with locked achievements to %s", len(lib.Games), dataFile)
	}

	return lib, scanErr
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
