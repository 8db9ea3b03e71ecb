package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
)

const (
	searchLimit = 20
	pageSize    = 20
)

// MovieRepository serves movies from a local PostgreSQL catalog. It is
// read-only and implements provider.MovieProvider.
type MovieRepository struct {
	db           *sql.DB
	imageBaseURL string
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB, imageBaseURL string) *MovieRepository {
	return &MovieRepository{db: db, imageBaseURL: imageBaseURL}
}

// Name identifies the backend.
func (r *MovieRepository) Name() string { return "catalog" }

// SearchByTitle returns up to 20 movies whose title contains query.
func (r *MovieRepository) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.MovieSummary{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.tmdb_id, COALESCE(m.imdb_id, ''), m.title,
			COALESCE(EXTRACT(YEAR FROM m.release_date)::int, 0),
			COALESCE(m.poster_path, '')
		FROM movies m
		WHERE m.title ILIKE $1
		ORDER BY m.popularity DESC NULLS LAST
		LIMIT $2
	`, "%"+escapeLike(query)+"%", searchLimit)
	if err != nil {
		return nil, fmt.Errorf("title search failed: %w", err)
	}
	defer rows.Close()

	return r.scanSummaries(rows)
}

// SearchByTerm returns movies tagged with the genre term or directed by the
// person term, 20 per page ordered by popularity.
func (r *MovieRepository) SearchByTerm(ctx context.Context, term string, page int) ([]models.MovieSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.MovieSummary{}, nil
	}
	if page < 1 {
		page = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.tmdb_id, COALESCE(m.imdb_id, ''), m.title,
			COALESCE(EXTRACT(YEAR FROM m.release_date)::int, 0),
			COALESCE(m.poster_path, '')
		FROM movies m
		WHERE LOWER(m.director) = LOWER($1)
			OR EXISTS (
				SELECT 1 FROM movie_genres mg
				INNER JOIN genres g ON g.id = mg.genre_id
				WHERE mg.movie_id = m.id AND LOWER(g.name) = LOWER($1)
			)
		ORDER BY m.popularity DESC NULLS LAST, m.id
		LIMIT $2 OFFSET $3
	`, term, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("term search failed: %w", err)
	}
	defer rows.Close()

	return r.scanSummaries(rows)
}

// GetDetails loads one movie by IMDb id ("tt...") or numeric TMDB id,
// together with its genres and top-billed cast.
func (r *MovieRepository) GetDetails(ctx context.Context, id string) (models.Movie, error) {
	column, arg, ok := lookupColumn(id)
	if !ok {
		return models.Movie{}, fmt.Errorf("%w: %s", provider.ErrNotFound, id)
	}

	var (
		internalID int
		tmdbID     int
		imdbID     string
		director   string
		posterPath string
		m          models.Movie
	)
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT m.id, m.tmdb_id, COALESCE(m.imdb_id, ''), m.title,
			COALESCE(EXTRACT(YEAR FROM m.release_date)::int, 0),
			COALESCE(m.poster_path, ''), COALESCE(m.director, ''),
			COALESCE(m.overview, ''), COALESCE(m.vote_average, 0), COALESCE(m.runtime, 0)
		FROM movies m
		WHERE m.%s = $1
	`, column), arg).Scan(
		&internalID, &tmdbID, &imdbID, &m.Title,
		&m.Year, &posterPath, &director,
		&m.Plot, &m.Rating, &m.Runtime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, fmt.Errorf("%w: %s", provider.ErrNotFound, id)
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("movie query failed: %w", err)
	}

	m.ID = movieID(tmdbID, imdbID)
	m.Poster = r.posterURL(posterPath)
	m.Director = director
	if strings.TrimSpace(m.Director) == "" {
		m.Director = models.UnknownDirector
	}
	if strings.TrimSpace(m.Plot) == "" {
		m.Plot = models.NoPlotAvailable
	}

	if m.Genres, err = r.queryNames(ctx, `
		SELECT g.name FROM genres g
		INNER JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = $1
		ORDER BY g.name
	`, internalID); err != nil {
		return models.Movie{}, fmt.Errorf("failed to query genres: %w", err)
	}

	if m.Actors, err = r.queryNames(ctx, fmt.Sprintf(`
		SELECT name FROM movie_cast
		WHERE movie_id = $1
		ORDER BY billing_order, name
		LIMIT %d
	`, models.MaxActors), internalID); err != nil {
		return models.Movie{}, fmt.Errorf("failed to query cast: %w", err)
	}

	return m, nil
}

func (r *MovieRepository) queryNames(ctx context.Context, query string, movieID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

func (r *MovieRepository) scanSummaries(rows *sql.Rows) ([]models.MovieSummary, error) {
	items := make([]models.MovieSummary, 0)
	for rows.Next() {
		var (
			item       models.MovieSummary
			tmdbID     int
			imdbID     string
			posterPath string
		)
		if err := rows.Scan(&tmdbID, &imdbID, &item.Title, &item.Year, &posterPath); err != nil {
			slog.Error("failed to scan movie row", "error", err)
			continue
		}
		item.ID = movieID(tmdbID, imdbID)
		item.Poster = r.posterURL(posterPath)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MovieRepository) posterURL(path string) string {
	if path == "" {
		return models.PlaceholderPoster
	}
	return r.imageBaseURL + path
}

// movieID prefers the IMDb id so catalog ids line up with the other backends.
func movieID(tmdbID int, imdbID string) string {
	if imdbID != "" {
		return imdbID
	}
	return strconv.Itoa(tmdbID)
}

// lookupColumn picks the movies column an external id refers to.
func lookupColumn(id string) (column string, arg any, ok bool) {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "tt") {
		return "imdb_id", id, true
	}
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return "", nil, false
	}
	return "tmdb_id", n, true
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
