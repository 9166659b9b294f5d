package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdrbrnd/whatsinthebox/internal/grid"
	"github.com/pdrbrnd/whatsinthebox/internal/repository"
)

const directoryPayload = `{
	"data": [
		{"id": "ch-hollywood", "name": "Hollywood", "category": "Filmes e Séries", "isPremium": false},
		{"id": "ch-tvcine", "name": "TVCine Top", "category": "Filmes e Séries", "isPremium": true},
		{"id": "ch-sport", "name": "Sport TV 1", "category": "Desporto", "isPremium": true},
		{"id": "ch-news", "name": "SIC Notícias", "category": "Informação", "isPremium": false}
	]
}`

func newTestChannelSync(t *testing.T) (*ChannelSyncService, *repository.ChannelRepository) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryPayload)
	}))
	t.Cleanup(server.Close)

	gridClient := grid.NewClient()
	gridClient.SetBaseURL(server.URL)

	channelRepo := repository.NewChannelRepository(newServiceTestDB(t))
	return NewChannelSyncService(gridClient, channelRepo, ""), channelRepo
}

func TestSyncKeepsOnlyTargetCategory(t *testing.T) {
	sync, channelRepo := newTestChannelSync(t)

	count, err := sync.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if count != 2 {
		t.Errorf("synced = %d, want 2", count)
	}

	channels, err := channelRepo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("stored channels = %d, want 2", len(channels))
	}
	for _, channel := range channels {
		if channel.Category != DefaultChannelCategory {
			t.Errorf("channel %s stored with category %q", channel.ExternalID, channel.Category)
		}
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	sync, channelRepo := newTestChannelSync(t)

	for i := 0; i < 2; i++ {
		if _, err := sync.Sync(); err != nil {
			t.Fatalf("Sync run %d failed: %v", i+1, err)
		}
	}

	channels, err := channelRepo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(channels) != 2 {
		t.Errorf("stored channels = %d, want 2 after a repeat sync", len(channels))
	}
}
