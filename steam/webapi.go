package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultWebAPIBase = "http://api.steampowered.com"

// Client talks to the Steam Web API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultWebAPIBase,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PlayerSummary is the subset of the player profile the scanner reports.
type PlayerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
}

// GetPlayerSummary fetches basic profile information for one user.
func (c *Client) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	var out struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}

	params := url.Values{"steamids": {steamID}}
	if err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v0002/", params, &out); err != nil {
		return nil, err
	}
	if len(out.Response.Players) == 0 {
		return nil, fmt.Errorf("steam: no player with id %s", steamID)
	}

	return &out.Response.Players[0], nil
}

// OwnedGame is one entry of the user's game list.
type OwnedGame struct {
	AppID           uint32 `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
}

// GetOwnedGames lists every game the user owns, including free games they
// have played.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	var out struct {
		Response struct {
			GameCount int         `json:"game_count"`
			Games     []OwnedGame `json:"games"`
		} `json:"response"`
	}

	params := url.Values{
		"steamid":                   {steamID},
		"format":                    {"json"},
		"include_appinfo":           {"1"},
		"include_played_free_games": {"1"},
	}
	if err := c.get(ctx, "/IPlayerService/GetOwnedGames/v0001/", params, &out); err != nil {
		return nil, err
	}

	return out.Response.Games, nil
}

// GetPlayerAchievements fetches the user's achievement states for one app.
// Returns nil with no error when the app has no achievement stats for this
// user (not owned, or no schema).
func (c *Client) GetPlayerAchievements(ctx context.Context, steamID string, appID uint32) ([]Achievement, error) {
	var out struct {
		PlayerStats struct {
			Success      bool          `json:"success"`
			Achievements []Achievement `json:"achievements"`
		} `json:"playerstats"`
	}

	params := url.Values{
		"steamid": {steamID},
		"appid":   {strconv.FormatUint(uint64(appID), 10)},
	}
	if err := c.get(ctx, "/ISteamUserStats/GetPlayerAchievements/v0001/", params, &out); err != nil {
		return nil, err
	}
	if !out.PlayerStats.Success {
		return nil, nil
	}

	return out.PlayerStats.Achievements, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("steam: %s returned %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
