package repository

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB wraps the database connection
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection with connection pool settings
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite benefits from limited connections due to write locking
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// InitSchema creates the database tables and runs migrations
func (s *SQLiteDB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		is_premium BOOLEAN DEFAULT FALSE,
		category TEXT DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS queued_channels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id INTEGER NOT NULL,
		day_offset INTEGER DEFAULT -1,
		is_complete BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(channel_id, day_offset),
		FOREIGN KEY (channel_id) REFERENCES channels(id)
	);

	CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		imdb_id TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		year TEXT DEFAULT '',
		genre TEXT DEFAULT '',
		actors TEXT DEFAULT '',
		director TEXT DEFAULT '',
		writer TEXT DEFAULT '',
		country TEXT DEFAULT '',
		language TEXT DEFAULT '',
		plot TEXT DEFAULT '',
		poster TEXT DEFAULT '',
		runtime TEXT DEFAULT '',
		rating_imdb TEXT,
		rating_rotten_tomatoes TEXT,
		rating_metascore TEXT,
		original_response TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		title TEXT NOT NULL,
		plot TEXT DEFAULT '',
		duration INTEGER DEFAULT 0,
		imdb_id TEXT,
		movie_id INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(channel_id, start_time),
		FOREIGN KEY (channel_id) REFERENCES channels(id),
		FOREIGN KEY (movie_id) REFERENCES movies(id)
	);

	CREATE INDEX IF NOT EXISTS idx_queue_incomplete ON queued_channels(is_complete);
	CREATE INDEX IF NOT EXISTS idx_movies_imdb ON movies(imdb_id);
	CREATE INDEX IF NOT EXISTS idx_schedules_channel ON schedules(channel_id);
	CREATE INDEX IF NOT EXISTS idx_schedules_movie ON schedules(movie_id);
	CREATE INDEX IF NOT EXISTS idx_schedules_start ON schedules(start_time);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	return s.runMigrations()
}

// runMigrations executes pending database migrations
func (s *SQLiteDB) runMigrations() error {
	// Check if the channels category column exists
	var result string
	err := s.db.QueryRow("SELECT category FROM channels LIMIT 1").Scan(&result)
	if err != nil && err != sql.ErrNoRows {
		// Column doesn't exist, need to migrate
		return s.migrateChannelCategory()
	}

	return nil
}

// migrateChannelCategory adds the category column to channels
func (s *SQLiteDB) migrateChannelCategory() error {
	_, err := s.db.Exec(`ALTER TABLE channels ADD COLUMN category TEXT DEFAULT ''`)
	return err
}
