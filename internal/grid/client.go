package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

const (
	defaultBaseURL  = "https://web.ott-red.vodafone.pt/ott3_webapp/v1.5"
	defaultTimeout  = 15 * time.Second
	requestInterval = 100 * time.Millisecond // spacing between provider calls
)

// Client fetches channel directories and program grids from the TV provider.
// It has no local cache; the provider is trusted for freshness.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	lastRequest time.Time
}

// ChannelInfo is a channel as reported by the provider directory.
type ChannelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	IsPremium bool   `json:"isPremium"`
}

// programEntry mirrors the provider grid payload. Series programs carry a
// non-empty "series" object; movies omit the key entirely.
type programEntry struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Duration    int             `json:"duration"`
	Series      json.RawMessage `json:"series"`
}

type channelsResponse struct {
	Data []ChannelInfo `json:"data"`
}

type gridResponse struct {
	Data []programEntry `json:"data"`
}

// APIError represents a non-success response from the grid provider
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("grid provider error (HTTP %d): %s", e.StatusCode, e.Body)
}

// NewClient creates a new grid provider client
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetBaseURL allows overriding the base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// FetchChannels returns the full provider channel directory
func (c *Client) FetchChannels() ([]ChannelInfo, error) {
	c.rateLimit()

	endpoint := fmt.Sprintf("%s/channels", c.baseURL)
	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var result channelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode channels response: %w", err)
	}

	return result.Data, nil
}

// FetchGrid returns the program listing for one channel and day offset.
// Any non-success response or malformed payload is an error; the caller
// treats it as fatal for the current task.
func (c *Client) FetchGrid(channelExternalID string, dayOffset int) ([]models.ProgramEntry, error) {
	if channelExternalID == "" {
		return nil, fmt.Errorf("missing channel external id")
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/programs/grids/%s/%d",
		c.baseURL, url.PathEscape(channelExternalID), dayOffset)

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grid: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var result gridResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode grid response: %w", err)
	}

	entries := make([]models.ProgramEntry, 0, len(result.Data))
	for _, program := range result.Data {
		entries = append(entries, models.ProgramEntry{
			Title:       program.Title,
			Description: program.Description,
			StartTime:   program.StartTime,
			EndTime:     program.EndTime,
			Duration:    program.Duration,
			IsSeries:    len(program.Series) > 0,
		})
	}

	return entries, nil
}

// checkResponse checks the HTTP response for errors
func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Body: "failed to read error response"}
	}
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}

// rateLimit ensures requests are spaced out to stay polite with the provider
func (c *Client) rateLimit() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}
