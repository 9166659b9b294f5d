package repository

import (
	"database/sql"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
	"github.com/pdrbrnd/whatsinthebox/internal/timeutil"
)

// ChannelRepository handles Channel database operations. The ingestion
// pipeline only reads channels; writes come from the directory sync.
type ChannelRepository struct {
	db *sql.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(sqliteDB *SQLiteDB) *ChannelRepository {
	return &ChannelRepository{db: sqliteDB.db}
}

// Upsert inserts a channel or updates its mutable fields when the external
// id already exists. The internal id is stable across syncs.
func (r *ChannelRepository) Upsert(channel *models.Channel) error {
	now := timeutil.Now()
	_, err := r.db.Exec(`
		INSERT INTO channels (external_id, name, is_premium, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			name = excluded.name,
			is_premium = excluded.is_premium,
			category = excluded.category,
			updated_at = excluded.updated_at
	`, channel.ExternalID, channel.Name, channel.IsPremium, channel.Category, now, now)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`SELECT id FROM channels WHERE external_id = ?`, channel.ExternalID).
		Scan(&channel.ID)
}

// GetByID retrieves a channel by its internal id
func (r *ChannelRepository) GetByID(id int64) (*models.Channel, error) {
	channel := &models.Channel{}
	err := r.db.QueryRow(`
		SELECT id, external_id, name, is_premium, category, created_at, updated_at
		FROM channels
		WHERE id = ?
	`, id).Scan(
		&channel.ID, &channel.ExternalID, &channel.Name,
		&channel.IsPremium, &channel.Category, &channel.CreatedAt, &channel.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// GetAll retrieves all channels ordered by insertion
func (r *ChannelRepository) GetAll() ([]models.Channel, error) {
	rows, err := r.db.Query(`
		SELECT id, external_id, name, is_premium, category, created_at, updated_at
		FROM channels
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var channel models.Channel
		err := rows.Scan(
			&channel.ID, &channel.ExternalID, &channel.Name,
			&channel.IsPremium, &channel.Category, &channel.CreatedAt, &channel.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

// GetAllIDs retrieves the internal ids of all channels
func (r *ChannelRepository) GetAllIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT id FROM channels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
