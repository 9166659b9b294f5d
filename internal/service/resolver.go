package service

import (
	"fmt"
	"strings"

	"github.com/pdrbrnd/whatsinthebox/internal/imdb"
)

// movieIDPrefix is the id prefix the suggestion index uses for titles (as
// opposed to names, companies, etc.)
const movieIDPrefix = "tt"

// movieTypes is the allow-list of media types considered a movie.
var movieTypes = map[string]bool{
	"feature":  true,
	"TV movie": true,
	"video":    true,
}

// Resolver maps free-text program titles to canonical IMDb ids using the
// suggestion index and, when ambiguous, scraped alternate titles.
type Resolver struct {
	client *imdb.Client
}

// NewResolver creates a new Resolver
func NewResolver(client *imdb.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the IMDb id for a raw title, or "" when the title cannot
// be disambiguated. An unresolved title is an expected outcome, not an
// error; errors are reserved for transient network failures.
func (r *Resolver) Resolve(rawTitle string) (string, error) {
	suggestions, err := r.client.Suggest(rawTitle)
	if err != nil {
		return "", fmt.Errorf("suggestion lookup for %q: %w", rawTitle, err)
	}

	candidates := filterCandidates(suggestions)
	if len(candidates) == 0 {
		return "", nil
	}

	// A single qualifying candidate is trusted without scraping.
	if len(candidates) == 1 {
		return candidates[0].ID, nil
	}

	normalized := imdb.NormalizeTitle(rawTitle)

	// Sequential scan with early exit: candidate order is deterministic and
	// the first match wins. Fan-out would hammer the scraped endpoint.
	for _, candidate := range candidates {
		titles, err := r.client.AlternateTitles(candidate.ID)
		if err != nil {
			return "", fmt.Errorf("alternate titles for %s: %w", candidate.ID, err)
		}

		if matchesCandidate(normalized, candidate, titles) {
			return candidate.ID, nil
		}
	}

	return "", nil
}

// filterCandidates keeps suggestions with a movie-like id and declared
// media type.
func filterCandidates(suggestions []imdb.Suggestion) []imdb.Suggestion {
	var candidates []imdb.Suggestion
	for _, s := range suggestions {
		if strings.HasPrefix(s.ID, movieIDPrefix) && movieTypes[s.Type] {
			candidates = append(candidates, s)
		}
	}
	return candidates
}

// matchesCandidate compares the normalized raw title against the
// candidate's localized titles, its original title, and finally its own
// label. Equality only; no edit-distance fuzziness.
func matchesCandidate(normalized string, candidate imdb.Suggestion, titles *imdb.AlternateTitles) bool {
	for _, localized := range titles.Localized {
		if imdb.NormalizeTitle(localized) == normalized {
			return true
		}
	}
	if titles.Original != "" && imdb.NormalizeTitle(titles.Original) == normalized {
		return true
	}
	return imdb.NormalizeTitle(candidate.Label) == normalized
}
