package service

import (
	"fmt"
	"log"

	"github.com/pdrbrnd/whatsinthebox/internal/grid"
	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/repository"
)

// DefaultChannelCategory is the provider category the ingestion cares about.
const DefaultChannelCategory = "Filmes e Séries"

// ChannelSyncService mirrors the provider's channel directory into the local
// channels table. Only channels in the target category are kept; everything
// else on the provider side is ignored.
type ChannelSyncService struct {
	gridClient     *grid.Client
	channelRepo    *repository.ChannelRepository
	targetCategory string
}

// NewChannelSyncService creates a new ChannelSyncService
func NewChannelSyncService(gridClient *grid.Client, channelRepo *repository.ChannelRepository, targetCategory string) *ChannelSyncService {
	if targetCategory == "" {
		targetCategory = DefaultChannelCategory
	}
	return &ChannelSyncService{
		gridClient:     gridClient,
		channelRepo:    channelRepo,
		targetCategory: targetCategory,
	}
}

// Sync fetches the provider directory and upserts matching channels,
// returning how many were written.
func (s *ChannelSyncService) Sync() (int, error) {
	channels, err := s.gridClient.FetchChannels()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch channel directory: %w", err)
	}

	count := 0
	for _, info := range channels {
		if info.Category != s.targetCategory {
			continue
		}

		channel := &models.Channel{
			ExternalID: info.ID,
			Name:       info.Name,
			IsPremium:  info.IsPremium,
			Category:   info.Category,
		}
		if err := s.channelRepo.Upsert(channel); err != nil {
			log.Printf("Warning: failed to upsert channel %s (%s): %v", info.ID, info.Name, err)
			continue
		}
		count++
	}

	return count, nil
}
