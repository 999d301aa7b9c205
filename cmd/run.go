package cmd

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dejunga/steamAchievementUnlocker/steam"
)

var runCmd = &cobra.Command{
	Use:                   "run",
	Short:                 "Check the Steam client, scan the library, then unlock achievements",
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !steam.IsClientRunning() {
			return errors.New("Steam is not running; start it, log in, then try again")
		}
		log.Info("Steam is running")

		apiKey, steamID, err := loadCredentials()
		if errors.Is(err, errMissingCredentials) {
			apiKey, steamID, err = promptCredentials()
		}
		if err != nil {
			return err
		}

		lib, err := doScan(cmd.Context(), apiKey, steamID)
		if err != nil {
			return err
		}
		if lib == nil || len(lib.Games) == 0 {
			log.Info("No games with locked achievements; nothing to do")
			return nil
		}

		return doUnlock(cmd.Context(), lib)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
