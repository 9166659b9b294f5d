package omdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://omdbapi.com"
	defaultTimeout  = 10 * time.Second
	requestInterval = 100 * time.Millisecond
)

// Rating source names as they appear in the provider's Ratings list.
const (
	SourceImdb           = "Internet Movie Database"
	SourceRottenTomatoes = "Rotten Tomatoes"
	SourceMetacritic     = "Metacritic"
)

// placeholder sentinel the provider uses for missing values
const notAvailable = "N/A"

// Rating is one entry of the heterogeneous named-source ratings list.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieResponse is the provider payload for one movie lookup. Response is
// the string "False" when the provider has no data for the id.
type MovieResponse struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	ImdbRating string   `json:"imdbRating"`
	ImdbVotes  string   `json:"imdbVotes"`
	ImdbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	Response   string   `json:"Response"`
}

// NoData reports whether the provider had no record for the requested id.
func (m *MovieResponse) NoData() bool {
	return m.Response == "False"
}

// Client fetches movie metadata from the OMDB API.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	lastRequest time.Time
}

// NewClient creates a new OMDB API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
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

// GetByImdbID fetches metadata for one IMDb id. The raw payload is returned
// alongside the decoded form so callers can persist it for audit.
func (c *Client) GetByImdbID(imdbID string) (*MovieResponse, string, error) {
	if imdbID == "" {
		return nil, "", fmt.Errorf("missing imdb id")
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/?i=%s&apikey=%s",
		c.baseURL, url.QueryEscape(imdbID), url.QueryEscape(c.apiKey))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch movie details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("OMDB error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read OMDB response: %w", err)
	}

	var details MovieResponse
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, "", fmt.Errorf("failed to decode OMDB response: %w", err)
	}

	return &details, string(raw), nil
}

// ExtractRating picks the named source's value from a ratings list, applying
// transform when present. Missing sources and the provider's placeholder
// sentinel both yield nil.
func ExtractRating(ratings []Rating, source string, transform func(string) string) *string {
	for _, rating := range ratings {
		if rating.Source != source {
			continue
		}
		if rating.Value == "" || rating.Value == notAvailable {
			return nil
		}
		value := rating.Value
		if transform != nil {
			value = transform(value)
		}
		return &value
	}
	return nil
}

// NumericPart reduces "X/10"-style ratings to the numeric part.
func NumericPart(value string) string {
	if i := strings.Index(value, "/"); i >= 0 {
		return value[:i]
	}
	return value
}

// rateLimit ensures requests are spaced out to avoid hitting API limits
func (c *Client) rateLimit() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}
