package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Dotenv-style file holding STEAM_API_KEY and STEAM_ID.
const credentialsFile = ".env"

var errMissingCredentials = errors.New(
	"STEAM_API_KEY and STEAM_ID must be set (environment or .env file); run with no arguments to be prompted")

// loadCredentials pulls the Web API key and SteamID64 from the .env file or
// the environment.
func loadCredentials() (apiKey, steamID string, err error) {
	if err := viper.ReadInConfig(); err != nil {
		// No .env file is fine; the environment may still provide both.
		log.WithError(err).Debug("No credentials file read")
	}

	apiKey = viper.GetString("steam_api_key")
	steamID = viper.GetString("steam_id")

	if apiKey == "" || steamID == "" {
		return "", "", errMissingCredentials
	}
	if !validAPIKey(apiKey) {
		return "", "", fmt.Errorf("invalid Steam API key (expected 32 hex characters)")
	}
	if !validSteamID(steamID) {
		return "", "", fmt.Errorf("invalid Steam ID (expected a 17-digit SteamID64)")
	}

	return apiKey, steamID, nil
}

// promptCredentials interactively collects credentials and persists them to
// the .env file for the next run.
func promptCredentials() (apiKey, steamID string, err error) {
	fmt.Println("A Steam Web API key and your SteamID64 are required.")
	fmt.Println("Get an API key at https://steamcommunity.com/dev/apikey (or run the apikey command).")
	fmt.Println("Find your SteamID64 at https://steamid.io/.")
	fmt.Println()

	rd := bufio.NewReader(os.Stdin)

	for apiKey == "" {
		line, err := readLine(rd, "Enter your Steam API key: ")
		if err != nil {
			return "", "", err
		}
		if validAPIKey(line) {
			apiKey = line
		} else {
			fmt.Println("Invalid API key format (should be 32 hex characters)")
		}
	}

	for steamID == "" {
		line, err := readLine(rd, "Enter your Steam ID (17-digit number): ")
		if err != nil {
			return "", "", err
		}
		if validSteamID(line) {
			steamID = line
		} else {
			fmt.Println("Invalid Steam ID format (should be 17 digits)")
		}
	}

	content := fmt.Sprintf("STEAM_API_KEY=%s\nSTEAM_ID=%s\n", apiKey, steamID)
	if err := os.WriteFile(credentialsFile, []byte(content), 0o600); err != nil {
		log.WithError(err).Warnf("Failed to save credentials to %s", credentialsFile)
	} else {
		log.Infof("Credentials saved to %s", credentialsFile)
	}

	return apiKey, steamID, nil
}

// confirm asks a yes/no question on stdin and reports the answer.
func confirm(question string) bool {
	fmt.Printf("%s (y/n): ", question)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func readLine(rd *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func validAPIKey(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func validSteamID(s string) bool {
	if len(s) != 17 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
