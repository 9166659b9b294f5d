package service

import (
	"fmt"
	"log"
	"time"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

// RunReporter sends a summary of one pipeline run to an external sink.
type RunReporter interface {
	SendRunReport(report *models.RunReport) error
}

// Scheduler drives the ingestion loop: a periodic tick that processes the
// next queue task, a nightly enqueue of all channels, and a weekly database
// backup.
type Scheduler struct {
	pipeline     *Pipeline
	backupSvc    *BackupService
	reporter     RunReporter // optional
	tickInterval time.Duration
	enqueueTime  string // Format: "HH:MM"
	stopChan     chan struct{}
}

// NewScheduler creates a new Scheduler
func NewScheduler(pipeline *Pipeline, backupSvc *BackupService, reporter RunReporter, tickInterval time.Duration, enqueueTime string) *Scheduler {
	return &Scheduler{
		pipeline:     pipeline,
		backupSvc:    backupSvc,
		reporter:     reporter,
		tickInterval: tickInterval,
		enqueueTime:  enqueueTime,
		stopChan:     make(chan struct{}),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	go s.runQueueTicker()
	go s.runDailyEnqueue()
	go s.runWeeklyBackup()
	log.Printf("Scheduler started - queue tick every %v, enqueue daily at %s, weekly backup on Sundays at 03:00",
		s.tickInterval, s.enqueueTime)
}

// Stop stops all scheduled tasks
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// runQueueTicker processes one queue task per tick. A run owns a single
// task end to end; horizontal throughput comes from tick frequency, never
// from intra-run parallelism.
func (s *Scheduler) runQueueTicker() {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := s.pipeline.ProcessNext()
			if err != nil {
				// Task stays pending; the next tick retries it.
				log.Printf("Pipeline run failed: %v", err)
				continue
			}
			if report.Idle {
				continue
			}
			log.Printf("Processed task %d (channel %d): %d programs, %d movies, %d resolved, %d enriched",
				report.TaskID, report.ChannelID, report.Programs, report.Movies, report.Resolved, report.Enriched)
			s.notify(report)
		case <-s.stopChan:
			return
		}
	}
}

// runDailyEnqueue queues every channel once per day for yesterday's grid
func (s *Scheduler) runDailyEnqueue() {
	for {
		nextRun := s.calculateNextEnqueueTime()
		duration := time.Until(nextRun)

		log.Printf("Next enqueue scheduled at %s (in %v)", nextRun.Format("2006-01-02 15:04:05"), duration.Round(time.Minute))

		select {
		case <-time.After(duration):
			count, err := s.pipeline.EnqueueAll(DefaultDayOffset)
			if err != nil {
				log.Printf("Failed to enqueue channels: %v", err)
			} else {
				log.Printf("Enqueued %d channels", count)
			}
		case <-s.stopChan:
			return
		}
	}
}

// runWeeklyBackup backs up the database file every Sunday at 03:00
func (s *Scheduler) runWeeklyBackup() {
	for {
		nextRun := s.calculateNextBackupTime()
		duration := time.Until(nextRun)

		select {
		case <-time.After(duration):
			backupPath, err := s.backupSvc.Backup()
			if err != nil {
				log.Printf("Failed to create backup: %v", err)
			} else {
				log.Printf("Backup created successfully: %s", backupPath)
			}
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) notify(report *models.RunReport) {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.SendRunReport(report); err != nil {
		log.Printf("Warning: failed to send run report: %v", err)
	}
}

// calculateNextEnqueueTime calculates the next daily enqueue slot
func (s *Scheduler) calculateNextEnqueueTime() time.Time {
	now := time.Now()

	hour, minute := 6, 0 // Default to 06:00
	if s.enqueueTime != "" {
		fmt.Sscanf(s.enqueueTime, "%d:%d", &hour, &minute)
	}

	enqueueTime := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.After(enqueueTime) {
		enqueueTime = enqueueTime.Add(24 * time.Hour)
	}

	return enqueueTime
}

// calculateNextBackupTime calculates the next Sunday at 03:00
func (s *Scheduler) calculateNextBackupTime() time.Time {
	now := time.Now()

	daysUntilSunday := (7 - int(now.Weekday())) % 7
	if daysUntilSunday == 0 {
		backupTime := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
		if now.After(backupTime) {
			daysUntilSunday = 7
		}
	}

	nextSunday := now.AddDate(0, 0, daysUntilSunday)
	return time.Date(nextSunday.Year(), nextSunday.Month(), nextSunday.Day(), 3, 0, 0, 0, now.Location())
}
