package repository

import (
	"database/sql"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

// ScheduleRepository handles persisted schedule entries. Rows are unique on
// (channel_id, start_time) so re-running a task updates instead of
// duplicating.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(sqliteDB *SQLiteDB) *ScheduleRepository {
	return &ScheduleRepository{db: sqliteDB.db}
}

// UpsertBatch writes all entries for one channel in a single transaction.
// Conflicting rows refresh the program metadata and resolved identity
// columns.
func (r *ScheduleRepository) UpsertBatch(channelID int64, entries []models.ScheduleEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range entries {
		entries[i].ChannelID = channelID
		_, err := tx.Exec(`
			INSERT INTO schedules (channel_id, start_time, end_time, title, plot, duration, imdb_id, movie_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(channel_id, start_time) DO UPDATE SET
				end_time = excluded.end_time,
				title = excluded.title,
				plot = excluded.plot,
				duration = excluded.duration,
				imdb_id = excluded.imdb_id,
				movie_id = excluded.movie_id
		`,
			entries[i].ChannelID, entries[i].StartTime, entries[i].EndTime,
			entries[i].Title, entries[i].Plot, entries[i].Duration,
			entries[i].ImdbID, entries[i].MovieID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a schedule entry by id
func (r *ScheduleRepository) GetByID(id int64) (*models.ScheduleEntry, error) {
	entry := &models.ScheduleEntry{}
	err := r.db.QueryRow(`
		SELECT id, channel_id, start_time, end_time, title, plot, duration, imdb_id, movie_id
		FROM schedules
		WHERE id = ?
	`, id).Scan(
		&entry.ID, &entry.ChannelID, &entry.StartTime, &entry.EndTime,
		&entry.Title, &entry.Plot, &entry.Duration, &entry.ImdbID, &entry.MovieID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByChannel retrieves all schedule entries for a channel ordered by start time
func (r *ScheduleRepository) GetByChannel(channelID int64) ([]models.ScheduleEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, channel_id, start_time, end_time, title, plot, duration, imdb_id, movie_id
		FROM schedules
		WHERE channel_id = ?
		ORDER BY start_time
	`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var entry models.ScheduleEntry
		err := rows.Scan(
			&entry.ID, &entry.ChannelID, &entry.StartTime, &entry.EndTime,
			&entry.Title, &entry.Plot, &entry.Duration, &entry.ImdbID, &entry.MovieID,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateIdentity sets the resolved identity columns for one entry
func (r *ScheduleRepository) UpdateIdentity(id int64, imdbID string, movieID int64) error {
	_, err := r.db.Exec(`
		UPDATE schedules SET imdb_id = ?, movie_id = ? WHERE id = ?
	`, imdbID, movieID, id)
	return err
}

// Delete removes a schedule entry by id
func (r *ScheduleRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	return err
}
