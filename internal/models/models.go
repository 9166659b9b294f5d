package models

import "time"

// Channel represents a TV channel known to the system. Rows are written only
// by the channel directory sync; the ingestion pipeline reads them to build
// grid requests.
type Channel struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"` // provider-side channel identifier
	Name       string    `json:"name"`
	IsPremium  bool      `json:"is_premium"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QueueTask is one unit of ingestion work: one channel, one day offset.
// Tasks are created in bulk by enqueue-all and flipped to complete by the
// pipeline after a successful persist. They are never deleted.
type QueueTask struct {
	ID         int64     `json:"id"`
	ChannelID  int64     `json:"channel_id"`
	DayOffset  int       `json:"day_offset"` // -1 means "yesterday"
	IsComplete bool      `json:"is_complete"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProgramEntry is a single program from a provider grid. Entries are
// transient: they are filtered to movies and turned into ScheduleEntry rows,
// never stored as-is.
type ProgramEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int    `json:"duration"`
	IsSeries    bool   `json:"-"`
}

// MovieDetails is the enriched metadata for one resolved movie. Rows are
// keyed by IMDb id and overwritten wholesale on refresh; UpdatedAt drives
// the 30-day staleness window.
type MovieDetails struct {
	ID                   int64     `json:"id"`
	ImdbID               string    `json:"imdb_id"`
	Title                string    `json:"title"`
	Year                 string    `json:"year"`
	Genre                string    `json:"genre"`
	Actors               string    `json:"actors"`
	Director             string    `json:"director"`
	Writer               string    `json:"writer"`
	Country              string    `json:"country"`
	Language             string    `json:"language"`
	Plot                 string    `json:"plot"`
	Poster               string    `json:"poster"`
	Runtime              string    `json:"runtime"`
	RatingImdb           *string   `json:"rating_imdb"`
	RatingRottenTomatoes *string   `json:"rating_rotten_tomatoes"`
	RatingMetascore      *string   `json:"rating_metascore"`
	OriginalResponse     string    `json:"-"` // raw provider payload, kept for audit/replay
	UpdatedAt            time.Time `json:"updated_at"`
}

// ScheduleEntry is one movie airing on one channel. Unique on
// (ChannelID, StartTime); entries that failed resolution keep a nil ImdbID
// and MovieID.
type ScheduleEntry struct {
	ID        int64   `json:"id"`
	ChannelID int64   `json:"channel_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Title     string  `json:"title"`
	Plot      string  `json:"plot"`
	Duration  int     `json:"duration"`
	ImdbID    *string `json:"imdb_id"`
	MovieID   *int64  `json:"movie_id"`
}

// RunReport summarizes one pipeline invocation for logs and notifications.
type RunReport struct {
	TaskID    int64  `json:"task_id"`
	ChannelID int64  `json:"channel_id"`
	DayOffset int    `json:"day_offset"`
	Programs  int    `json:"programs"`
	Movies    int    `json:"movies"`
	Resolved  int    `json:"resolved"`
	Enriched  int    `json:"enriched"`
	Persisted int    `json:"persisted"`
	Idle      bool   `json:"idle"` // true when the queue had no pending task
	Duration  string `json:"duration"`
}
