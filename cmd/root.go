package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/inconshreveable/mousetrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose   = false
	logToFile = false
	dataFile  = "data.json"
)

// Version info from ldflags.
var (
	version    = "dev"
	gitSummary = "unknown"
)

var rootCmd = &cobra.Command{
	Use:                   "steam-achievement-unlocker",
	Short:                 "Bulk-modify Steam achievement state through the client's native interfaces.",
	Version:               fmt.Sprintf("%s (%s)", version, gitSummary),
	DisableFlagsInUseLine: true,
	Example: strings.Join([]string{
		"steam-achievement-unlocker scan",
		"steam-achievement-unlocker unlock",
		"steam-achievement-unlocker run",
	}, "\n"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if logToFile {
			name := fmt.Sprintf("steam_achievement_log_%s.txt", uuid.NewString())
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("create log file: %w", err)
			}
			logrus.SetOutput(io.MultiWriter(os.Stderr, f))
			logrus.Infof("Logging to %s", name)
		}

		return nil
	},
}

func Execute() {
	// Default to executing the full pipeline if opened from Explorer
	cobra.MousetrapHelpText = ""
	if mousetrap.StartedByExplorer() {
		rootCmd.SetArgs([]string{"run"})
	}

	rootCmd.Execute() //nolint:errcheck
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		verbose,
		"log more information to stderr",
	)

	rootCmd.PersistentFlags().BoolVar(
		&logToFile,
		"log-file",
		logToFile,
		"also write logs to a per-run file",
	)

	rootCmd.PersistentFlags().StringVar(
		&dataFile,
		"data",
		dataFile,
		"library snapshot file (a .gz suffix enables compression)",
	)

	viper.SetConfigFile(credentialsFile)
	viper.SetConfigType("env")
	viper.BindEnv("steam_api_key", "STEAM_API_KEY") //nolint:errcheck
	viper.BindEnv("steam_id", "STEAM_ID")           //nolint:errcheck
}
