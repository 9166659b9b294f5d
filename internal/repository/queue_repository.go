package repository

import (
	"database/sql"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/timeutil"
)

// QueueRepository handles the durable queue of (channel, day offset) tasks.
// Tasks are never deleted; re-enqueueing the same pair resets the completion
// flag on the existing row instead of duplicating it.
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new QueueRepository
func NewQueueRepository(sqliteDB *SQLiteDB) *QueueRepository {
	return &QueueRepository{db: sqliteDB.db}
}

// EnqueueAll upserts one task per channel id for the given day offset.
// Conflicting rows are reset to incomplete so a re-enqueue schedules the
// channel for another run.
func (r *QueueRepository) EnqueueAll(channelIDs []int64, dayOffset int) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := timeutil.Now()
	count := 0
	for _, channelID := range channelIDs {
		_, err := tx.Exec(`
			INSERT INTO queued_channels (channel_id, day_offset, is_complete, created_at)
			VALUES (?, ?, FALSE, ?)
			ON CONFLICT(channel_id, day_offset) DO UPDATE SET
				is_complete = FALSE
		`, channelID, dayOffset, now)
		if err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// DequeueNext returns the oldest incomplete task, or nil when the queue is
// drained. An empty queue is the idle condition, not an error.
func (r *QueueRepository) DequeueNext() (*models.QueueTask, error) {
	task := &models.QueueTask{}
	err := r.db.QueryRow(`
		SELECT id, channel_id, day_offset, is_complete, created_at
		FROM queued_channels
		WHERE is_complete = FALSE
		ORDER BY id
		LIMIT 1
	`).Scan(&task.ID, &task.ChannelID, &task.DayOffset, &task.IsComplete, &task.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// MarkComplete flips the completion flag for a task. A task left incomplete
// is picked up again on the next run; this is the sole retry mechanism.
func (r *QueueRepository) MarkComplete(taskID int64) error {
	_, err := r.db.Exec(`
		UPDATE queued_channels SET is_complete = TRUE WHERE id = ?
	`, taskID)
	return err
}

// GetByID retrieves a task by its id
func (r *QueueRepository) GetByID(taskID int64) (*models.QueueTask, error) {
	task := &models.QueueTask{}
	err := r.db.QueryRow(`
		SELECT id, channel_id, day_offset, is_complete, created_at
		FROM queued_channels
		WHERE id = ?
	`, taskID).Scan(&task.ID, &task.ChannelID, &task.DayOffset, &task.IsComplete, &task.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CountPending returns the number of incomplete tasks
func (r *QueueRepository) CountPending() (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM queued_channels WHERE is_complete = FALSE
	`).Scan(&count)
	return count, err
}
