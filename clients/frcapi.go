package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FRCTeam is one team record as returned by the external FRC stats API.
type FRCTeam struct {
	Key        string `json:"key"`
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// FRCClient fetches the competitive-robotics team catalog from the FRC
// stats API. Responses are paginated; an empty page marks the end.
type FRCClient struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
}

func NewFRCClient(baseURL, authKey string) *FRCClient {
	return &FRCClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		authKey:    authKey,
	}
}

// ListTeams returns one page of the team catalog, up to 500 teams. Pages
// are zero-based.
func (c *FRCClient) ListTeams(ctx context.Context, page int) ([]FRCTeam, error) {
	url := fmt.Sprintf("%s/teams/%d", c.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build teams request: %w", err)
	}
	req.Header.Set("X-FRC-Auth-Key", c.authKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("teams request failed (page %d): %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("teams request returned status %d (page %d)", resp.StatusCode, page)
	}

	var teams []FRCTeam
	if err := json.NewDecoder(resp.Body).Decode(&teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams response (page %d): %w", page, err)
	}
	return teams, nil
}
