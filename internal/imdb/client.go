package imdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultSuggestionsBaseURL = "https://v2.sg.media-imdb.com/suggestion"
	defaultTitleBaseURL       = "https://www.imdb.com/title"
	defaultTimeout            = 15 * time.Second
	requestInterval           = 250 * time.Millisecond // scraped endpoint, keep it slow
)

// Suggestion is a single candidate from the suggestion index: id, declared
// media type (q) and display label (l).
type Suggestion struct {
	ID    string `json:"id"`
	Type  string `json:"q"`
	Label string `json:"l"`
}

type suggestionResponse struct {
	D []Suggestion `json:"d"`
}

// AlternateTitles holds what the release-info page knows about a candidate:
// the titles listed for the target locale and the one marked as original.
type AlternateTitles struct {
	Localized []string
	Original  string
}

// Client queries the IMDb suggestion index and scrapes release-info pages
// for alternate titles. Calls are rate limited; the scraped endpoint has no
// formal API contract.
type Client struct {
	suggestionsBaseURL string
	titleBaseURL       string
	locale             string
	httpClient         *http.Client
	lastRequest        time.Time
}

// NewClient creates a new IMDb client targeting the given locale name
// (e.g. "Portugal") for alternate-title extraction.
func NewClient(locale string) *Client {
	return &Client{
		suggestionsBaseURL: defaultSuggestionsBaseURL,
		titleBaseURL:       defaultTitleBaseURL,
		locale:             locale,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetBaseURLs allows overriding both endpoints (useful for testing)
func (c *Client) SetBaseURLs(suggestionsBaseURL, titleBaseURL string) {
	c.suggestionsBaseURL = suggestionsBaseURL
	c.titleBaseURL = titleBaseURL
}

// Suggest queries the suggestion index for a raw title. An empty result is
// the expected outcome for unknown titles, not an error.
func (c *Client) Suggest(rawTitle string) ([]Suggestion, error) {
	firstChar, slug, ok := LookupKey(rawTitle)
	if !ok {
		return nil, nil
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/%s/%s.json",
		c.suggestionsBaseURL, url.PathEscape(firstChar), url.PathEscape(slug))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("suggestion index error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var result suggestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion response: %w", err)
	}

	return result.D, nil
}

// AlternateTitles fetches and scrapes the release-info page for one
// candidate id.
func (c *Client) AlternateTitles(id string) (*AlternateTitles, error) {
	c.rateLimit()

	endpoint := fmt.Sprintf("%s/%s/releaseinfo", c.titleBaseURL, url.PathEscape(id))

	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release info for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("release info error for %s (HTTP %d)", id, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse release info for %s: %w", id, err)
	}

	return c.extractAlternateTitles(doc), nil
}

// extractAlternateTitles walks the parsed page for aka-item rows; each row
// pairs a region name with a title string.
func (c *Client) extractAlternateTitles(doc *html.Node) *AlternateTitles {
	titles := &AlternateTitles{}

	for _, item := range findAllByClass(doc, "aka-item") {
		name := strings.TrimSpace(nodeText(findFirstByClass(item, "aka-item__name")))
		title := strings.TrimSpace(nodeText(findFirstByClass(item, "aka-item__title")))
		if title == "" {
			continue
		}

		switch {
		case name == c.locale:
			titles.Localized = append(titles.Localized, title)
		case strings.Contains(strings.ToLower(name), "original title"):
			if titles.Original == "" {
				titles.Original = title
			}
		}
	}

	return titles
}

// rateLimit ensures requests are spaced out; the release-info scan is
// strictly sequential to bound load on the endpoint.
func (c *Client) rateLimit() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if hasClass(node, class) {
			found = append(found, node)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return found
}

func findFirstByClass(n *html.Node, class string) *html.Node {
	if n == nil {
		return nil
	}
	if nodes := findAllByClass(n, class); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
