package service

import (
	"fmt"
	"log"
	"time"

	"github.com/pdrbrnd/whatsinthebox/internal/grid"
	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/repository"
)

// DefaultDayOffset targets yesterday's grid, which is complete by the time
// the nightly enqueue runs.
const DefaultDayOffset = -1

// RepairResult describes the outcome of a single-entry repair.
type RepairResult struct {
	ScheduleID int64   `json:"schedule_id"`
	Deleted    bool    `json:"deleted"`
	ImdbID     *string `json:"imdb_id,omitempty"`
	MovieID    *int64  `json:"movie_id,omitempty"`
}

// Pipeline orchestrates one ingestion tick: dequeue a task, fetch its grid,
// resolve and enrich each movie, persist the batch, mark the task complete.
// A run processes at most one task; throughput comes from tick frequency.
type Pipeline struct {
	gridClient   *grid.Client
	resolver     *Resolver
	enricher     *Enricher
	channelRepo  *repository.ChannelRepository
	queueRepo    *repository.QueueRepository
	scheduleRepo *repository.ScheduleRepository
}

// NewPipeline creates a new Pipeline
func NewPipeline(
	gridClient *grid.Client,
	resolver *Resolver,
	enricher *Enricher,
	channelRepo *repository.ChannelRepository,
	queueRepo *repository.QueueRepository,
	scheduleRepo *repository.ScheduleRepository,
) *Pipeline {
	return &Pipeline{
		gridClient:   gridClient,
		resolver:     resolver,
		enricher:     enricher,
		channelRepo:  channelRepo,
		queueRepo:    queueRepo,
		scheduleRepo: scheduleRepo,
	}
}

// EnqueueAll creates (or resets) one queue task per known channel for the
// given day offset.
func (p *Pipeline) EnqueueAll(dayOffset int) (int, error) {
	ids, err := p.channelRepo.GetAllIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list channels: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := p.queueRepo.EnqueueAll(ids, dayOffset)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue channels: %w", err)
	}
	return count, nil
}

// ProcessNext handles the next incomplete queue task. When the queue is
// drained the report's Idle flag is set; that is the terminal condition for
// a tick, not an error. Any failure before MarkComplete leaves the task
// pending so the next tick retries the whole batch; every persistence step
// is an idempotent upsert, so at-least-once processing is harmless.
func (p *Pipeline) ProcessNext() (*models.RunReport, error) {
	started := time.Now()

	task, err := p.queueRepo.DequeueNext()
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue: %w", err)
	}
	if task == nil {
		return &models.RunReport{Idle: true}, nil
	}

	channel, err := p.channelRepo.GetByID(task.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel %d: %w", task.ChannelID, err)
	}
	if channel == nil {
		return nil, fmt.Errorf("task %d references unknown channel %d", task.ID, task.ChannelID)
	}

	programs, err := p.gridClient.FetchGrid(channel.ExternalID, task.DayOffset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grid for channel %s: %w", channel.ExternalID, err)
	}

	report := &models.RunReport{
		TaskID:    task.ID,
		ChannelID: task.ChannelID,
		DayOffset: task.DayOffset,
		Programs:  len(programs),
	}

	var entries []models.ScheduleEntry
	for _, program := range programs {
		if program.IsSeries {
			continue
		}
		report.Movies++

		entry := models.ScheduleEntry{
			ChannelID: task.ChannelID,
			StartTime: program.StartTime,
			EndTime:   program.EndTime,
			Title:     program.Title,
			Plot:      program.Description,
			Duration:  program.Duration,
		}

		// Resolution and enrichment failures downgrade to a null identity;
		// the entry is still persisted so the grid stays complete.
		imdbID, movieID := p.identify(program.Title)
		entry.ImdbID = imdbID
		entry.MovieID = movieID
		if imdbID != nil {
			report.Resolved++
		}
		if movieID != nil {
			report.Enriched++
		}

		entries = append(entries, entry)
	}

	if err := p.scheduleRepo.UpsertBatch(task.ChannelID, entries); err != nil {
		return nil, fmt.Errorf("failed to persist schedules for channel %d: %w", task.ChannelID, err)
	}
	report.Persisted = len(entries)

	if err := p.queueRepo.MarkComplete(task.ID); err != nil {
		// The batch is persisted; the task will be reprocessed next tick and
		// the upserts will absorb the duplicate run.
		return nil, fmt.Errorf("failed to mark task %d complete: %w", task.ID, err)
	}

	report.Duration = time.Since(started).Round(time.Millisecond).String()
	return report, nil
}

// Repair re-runs resolution and enrichment for one persisted entry. On
// success the row is updated in place; when the title still cannot be
// resolved the row is deleted, pruning entries the batch run left without
// an identity.
func (p *Pipeline) Repair(scheduleID int64) (*RepairResult, error) {
	entry, err := p.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule %d: %w", scheduleID, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("schedule %d not found", scheduleID)
	}

	imdbID, err := p.resolver.Resolve(entry.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", entry.Title, err)
	}

	var movieID *int64
	if imdbID != "" {
		movieID, err = p.enricher.EnsureDetails(imdbID)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich %s: %w", imdbID, err)
		}
	}

	if imdbID == "" || movieID == nil {
		if err := p.scheduleRepo.Delete(scheduleID); err != nil {
			return nil, fmt.Errorf("failed to delete schedule %d: %w", scheduleID, err)
		}
		return &RepairResult{ScheduleID: scheduleID, Deleted: true}, nil
	}

	if err := p.scheduleRepo.UpdateIdentity(scheduleID, imdbID, *movieID); err != nil {
		return nil, fmt.Errorf("failed to update schedule %d: %w", scheduleID, err)
	}

	return &RepairResult{ScheduleID: scheduleID, ImdbID: &imdbID, MovieID: movieID}, nil
}

// identify resolves and enriches one title, tolerating per-item failure.
func (p *Pipeline) identify(title string) (*string, *int64) {
	imdbID, err := p.resolver.Resolve(title)
	if err != nil {
		log.Printf("Warning: resolution failed for %q: %v", title, err)
		return nil, nil
	}
	if imdbID == "" {
		return nil, nil
	}

	movieID, err := p.enricher.EnsureDetails(imdbID)
	if err != nil {
		log.Printf("Warning: enrichment failed for %s: %v", imdbID, err)
		return &imdbID, nil
	}
	if movieID == nil {
		return &imdbID, nil
	}

	return &imdbID, movieID
}
