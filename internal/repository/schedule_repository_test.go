package repository

import (
	"testing"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

func sampleEntries() []models.ScheduleEntry {
	imdbID := "tt0068646"
	return []models.ScheduleEntry{
		{
			StartTime: "2021-03-01 21:30",
			EndTime:   "2021-03-02 00:25",
			Title:     "O Padrinho",
			Plot:      "Mafia drama",
			Duration:  175,
			ImdbID:    &imdbID,
		},
		{
			StartTime: "2021-03-02 00:30",
			EndTime:   "2021-03-02 02:00",
			Title:     "Unknown Late Movie",
			Duration:  90,
		},
	}
}

func TestUpsertBatchIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	scheduleRepo := NewScheduleRepository(db)
	channelIDs := seedChannels(t, db, 1)

	if err := scheduleRepo.UpsertBatch(channelIDs[0], sampleEntries()); err != nil {
		t.Fatalf("first batch failed: %v", err)
	}
	if err := scheduleRepo.UpsertBatch(channelIDs[0], sampleEntries()); err != nil {
		t.Fatalf("second batch failed: %v", err)
	}

	entries, err := scheduleRepo.GetByChannel(channelIDs[0])
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d rows, want 2 (identical batches must not duplicate)", len(entries))
	}
}

func TestUpsertBatchRefreshesIdentity(t *testing.T) {
	db := newTestDB(t)
	scheduleRepo := NewScheduleRepository(db)
	channelIDs := seedChannels(t, db, 1)

	entries := sampleEntries()
	if err := scheduleRepo.UpsertBatch(channelIDs[0], entries); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	// A retried batch that resolved the previously-unknown movie updates
	// the existing row in place.
	imdbID := "tt0111161"
	var movieID int64 = 7
	entries[1].ImdbID = &imdbID
	entries[1].MovieID = &movieID
	if err := scheduleRepo.UpsertBatch(channelIDs[0], entries); err != nil {
		t.Fatalf("retry batch failed: %v", err)
	}

	stored, err := scheduleRepo.GetByChannel(channelIDs[0])
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d rows, want 2", len(stored))
	}

	var late *models.ScheduleEntry
	for i := range stored {
		if stored[i].Title == "Unknown Late Movie" {
			late = &stored[i]
		}
	}
	if late == nil {
		t.Fatal("late movie row missing")
	}
	if late.ImdbID == nil || *late.ImdbID != imdbID {
		t.Errorf("imdb id = %v, want %s", late.ImdbID, imdbID)
	}
	if late.MovieID == nil || *late.MovieID != movieID {
		t.Errorf("movie id = %v, want %d", late.MovieID, movieID)
	}
}

func TestUpdateIdentityAndDelete(t *testing.T) {
	db := newTestDB(t)
	scheduleRepo := NewScheduleRepository(db)
	channelIDs := seedChannels(t, db, 1)

	if err := scheduleRepo.UpsertBatch(channelIDs[0], sampleEntries()); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	entries, err := scheduleRepo.GetByChannel(channelIDs[0])
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}

	target := entries[1]
	if err := scheduleRepo.UpdateIdentity(target.ID, "tt0111161", 3); err != nil {
		t.Fatalf("UpdateIdentity failed: %v", err)
	}

	updated, err := scheduleRepo.GetByID(target.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.ImdbID == nil || *updated.ImdbID != "tt0111161" {
		t.Errorf("imdb id = %v, want tt0111161", updated.ImdbID)
	}

	if err := scheduleRepo.Delete(target.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := scheduleRepo.GetByID(target.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gone != nil {
		t.Error("expected row to be deleted")
	}
}
