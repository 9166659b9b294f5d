package service

import (
	"fmt"
	"time"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/omdb"
	"github.com/pdrbrnd/whatsinthebox/internal/repository"
	"github.com/pdrbrnd/whatsinthebox/internal/timeutil"
)

// StalenessWindow is how long a persisted movie record stays authoritative
// before enrichment re-fetches it.
const StalenessWindow = 30 * 24 * time.Hour

// Enricher maintains the movie metadata store: resolved IMDb ids are looked
// up locally first and fetched from OMDB only when absent or stale.
type Enricher struct {
	client    *omdb.Client
	movieRepo *repository.MovieRepository
	staleness time.Duration
}

// NewEnricher creates a new Enricher with the default staleness window
func NewEnricher(client *omdb.Client, movieRepo *repository.MovieRepository) *Enricher {
	return &Enricher{
		client:    client,
		movieRepo: movieRepo,
		staleness: StalenessWindow,
	}
}

// EnsureDetails returns the internal movie id for an IMDb id, fetching and
// upserting metadata when the stored record is missing or stale. A nil id
// with nil error means the provider has no data; the caller records the
// program as unresolved.
func (e *Enricher) EnsureDetails(imdbID string) (*int64, error) {
	existing, err := e.movieRepo.GetByImdbID(imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up movie %s: %w", imdbID, err)
	}

	if existing != nil && timeutil.Now().Sub(existing.UpdatedAt) <= e.staleness {
		return &existing.ID, nil
	}

	details, raw, err := e.client.GetByImdbID(imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch details for %s: %w", imdbID, err)
	}
	if details.NoData() {
		return nil, nil
	}

	movie := buildMovieDetails(details, raw)
	if err := e.movieRepo.Upsert(movie); err != nil {
		return nil, fmt.Errorf("failed to upsert movie %s: %w", imdbID, err)
	}

	return &movie.ID, nil
}

// buildMovieDetails maps a provider payload onto a movie row, extracting the
// three known rating sources from the heterogeneous ratings list.
func buildMovieDetails(details *omdb.MovieResponse, raw string) *models.MovieDetails {
	// Top-level fields win when present; the ratings list is the fallback.
	ratingImdb := omdb.ExtractRating(details.Ratings, omdb.SourceImdb, omdb.NumericPart)
	if details.ImdbRating != "" && details.ImdbRating != "N/A" {
		value := details.ImdbRating
		ratingImdb = &value
	}

	ratingMeta := omdb.ExtractRating(details.Ratings, omdb.SourceMetacritic, omdb.NumericPart)
	if details.Metascore != "" && details.Metascore != "N/A" {
		value := details.Metascore
		ratingMeta = &value
	}

	ratingRotten := omdb.ExtractRating(details.Ratings, omdb.SourceRottenTomatoes, nil)

	return &models.MovieDetails{
		ImdbID:               details.ImdbID,
		Title:                details.Title,
		Year:                 details.Year,
		Genre:                details.Genre,
		Actors:               details.Actors,
		Director:             details.Director,
		Writer:               details.Writer,
		Country:              details.Country,
		Language:             details.Language,
		Plot:                 details.Plot,
		Poster:               details.Poster,
		Runtime:              details.Runtime,
		RatingImdb:           ratingImdb,
		RatingRottenTomatoes: ratingRotten,
		RatingMetascore:      ratingMeta,
		OriginalResponse:     raw,
		UpdatedAt:            timeutil.Now(),
	}
}
