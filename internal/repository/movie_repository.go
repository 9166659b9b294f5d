package repository

import (
	"database/sql"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

// MovieRepository stores enriched movie metadata keyed by IMDb id.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository
func NewMovieRepository(sqliteDB *SQLiteDB) *MovieRepository {
	return &MovieRepository{db: sqliteDB.db}
}

// GetByImdbID retrieves a movie by IMDb id
func (r *MovieRepository) GetByImdbID(imdbID string) (*models.MovieDetails, error) {
	movie := &models.MovieDetails{}
	err := r.db.QueryRow(`
		SELECT id, imdb_id, title, year, genre, actors, director, writer,
			country, language, plot, poster, runtime,
			rating_imdb, rating_rotten_tomatoes, rating_metascore,
			original_response, updated_at
		FROM movies
		WHERE imdb_id = ?
	`, imdbID).Scan(
		&movie.ID, &movie.ImdbID, &movie.Title, &movie.Year, &movie.Genre,
		&movie.Actors, &movie.Director, &movie.Writer, &movie.Country,
		&movie.Language, &movie.Plot, &movie.Poster, &movie.Runtime,
		&movie.RatingImdb, &movie.RatingRottenTomatoes, &movie.RatingMetascore,
		&movie.OriginalResponse, &movie.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// Upsert writes a movie row, overwriting every column when the IMDb id
// already exists. Refreshes replace the record wholesale; there is no
// partial-field merge.
func (r *MovieRepository) Upsert(movie *models.MovieDetails) error {
	_, err := r.db.Exec(`
		INSERT INTO movies (
			imdb_id, title, year, genre, actors, director, writer,
			country, language, plot, poster, runtime,
			rating_imdb, rating_rotten_tomatoes, rating_metascore,
			original_response, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(imdb_id) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			genre = excluded.genre,
			actors = excluded.actors,
			director = excluded.director,
			writer = excluded.writer,
			country = excluded.country,
			language = excluded.language,
			plot = excluded.plot,
			poster = excluded.poster,
			runtime = excluded.runtime,
			rating_imdb = excluded.rating_imdb,
			rating_rotten_tomatoes = excluded.rating_rotten_tomatoes,
			rating_metascore = excluded.rating_metascore,
			original_response = excluded.original_response,
			updated_at = excluded.updated_at
	`,
		movie.ImdbID, movie.Title, movie.Year, movie.Genre, movie.Actors,
		movie.Director, movie.Writer, movie.Country, movie.Language,
		movie.Plot, movie.Poster, movie.Runtime,
		movie.RatingImdb, movie.RatingRottenTomatoes, movie.RatingMetascore,
		movie.OriginalResponse, movie.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`SELECT id FROM movies WHERE imdb_id = ?`, movie.ImdbID).
		Scan(&movie.ID)
}
