package jobmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	defaultTimeout = 15 * time.Second
)

// Client fetches live job postings from the Adzuna search API.
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a job-search client with the given application credentials.
func NewClient(appID, appKey string) *Client {
	return &Client{
		appID:   appID,
		appKey:  appKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(appID, appKey, baseURL string) *Client {
	c := NewClient(appID, appKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Configured reports whether API credentials are present. An unconfigured
// client still works; every fetch just fails and degrades to empty results.
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

type searchResponse struct {
	Results []struct {
		Description string `json:"description"`
	} `json:"results"`
}

// FetchDescriptions returns the description texts of up to limit live job
// postings matching the keyword in the given country. Callers are expected
// to treat any error as "no results" and degrade.
func (c *Client) FetchDescriptions(ctx context.Context, keyword, country string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("what", keyword)
	params.Set("results_per_page", strconv.Itoa(limit))
	params.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", c.baseURL, url.PathEscape(country), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching job postings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding job search response: %w", err)
	}

	var descriptions []string
	for _, r := range parsed.Results {
		if r.Description != "" {
			descriptions = append(descriptions, r.Description)
		}
	}
	return descriptions, nil
}
