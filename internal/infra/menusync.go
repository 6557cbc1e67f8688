package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteDish is one catalog entry as published by the remote menu feed.
type RemoteDish struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Price              string  `json:"price"`
	Category           string  `json:"category"`
	CookingTimeMinutes int     `json:"cooking_time_minutes"`
	Available          *bool   `json:"available,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
}

// MenuSyncClient fetches the dish catalog from a remote feed (head office,
// franchise master list). Failures of the feed must never take the POS down,
// so callers wrap Fetch in the circuit breaker.
type MenuSyncClient struct {
	feedURL    string
	httpClient *http.Client
}

func NewMenuSyncClient(feedURL string) *MenuSyncClient {
	return &MenuSyncClient{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads the full catalog from the remote feed.
func (c *MenuSyncClient) Fetch(ctx context.Context) ([]RemoteDish, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("menusync: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menusync: feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menusync: feed returned %d", resp.StatusCode)
	}

	var dishes []RemoteDish
	if err := json.NewDecoder(resp.Body).Decode(&dishes); err != nil {
		return nil, fmt.Errorf("menusync: decode catalog: %w", err)
	}
	return dishes, nil
}
