package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const apiKeyURL = "https://steamcommunity.com/dev/apikey"

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Open the Steam Web API key registration page",
	Run: func(*cobra.Command, []string) {
		if err := browser.OpenURL(apiKeyURL); err != nil {
			fmt.Println("Unable to open a web browser automatically.")
			fmt.Println("Please visit this link to request an API key:")
			fmt.Printf("\n%s\n\n", apiKeyURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
}
