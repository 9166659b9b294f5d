package repository

import (
	"testing"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/timeutil"
)

func TestMovieUpsertKeepsInternalID(t *testing.T) {
	db := newTestDB(t)
	movieRepo := NewMovieRepository(db)

	rating := "9.2"
	movie := &models.MovieDetails{
		ImdbID:           "tt0068646",
		Title:            "The Godfather",
		Year:             "1972",
		RatingImdb:       &rating,
		OriginalResponse: `{"Title":"The Godfather"}`,
		UpdatedAt:        timeutil.Now(),
	}
	if err := movieRepo.Upsert(movie); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if movie.ID == 0 {
		t.Fatal("expected an internal id after insert")
	}
	firstID := movie.ID

	// Refresh overwrites every column but keeps the internal id stable so
	// schedule references stay valid.
	refreshed := &models.MovieDetails{
		ImdbID:           "tt0068646",
		Title:            "The Godfather",
		Year:             "1972",
		Genre:            "Crime, Drama",
		OriginalResponse: `{"Title":"The Godfather","Genre":"Crime, Drama"}`,
		UpdatedAt:        timeutil.Now(),
	}
	if err := movieRepo.Upsert(refreshed); err != nil {
		t.Fatalf("refresh upsert failed: %v", err)
	}
	if refreshed.ID != firstID {
		t.Errorf("internal id changed on refresh: %d -> %d", firstID, refreshed.ID)
	}

	stored, err := movieRepo.GetByImdbID("tt0068646")
	if err != nil {
		t.Fatalf("GetByImdbID failed: %v", err)
	}
	if stored.Genre != "Crime, Drama" {
		t.Errorf("genre = %q, want refreshed value", stored.Genre)
	}
	if stored.RatingImdb != nil {
		t.Errorf("rating = %v, want nil (refresh is wholesale, no merge)", *stored.RatingImdb)
	}
}

func TestMovieGetMissing(t *testing.T) {
	db := newTestDB(t)
	movieRepo := NewMovieRepository(db)

	movie, err := movieRepo.GetByImdbID("tt0000000")
	if err != nil {
		t.Fatalf("GetByImdbID failed: %v", err)
	}
	if movie != nil {
		t.Errorf("expected nil for a missing movie, got %+v", movie)
	}
}
