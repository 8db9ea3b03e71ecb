// Package provider defines the movie data source capability the recommender
// depends on. Each backend (TMDB, OMDb, the Postgres catalog) ships one
// adapter that normalizes its records into models.Movie.
package provider

import (
	"context"
	"errors"

	"movie-recommender/internal/models"
)

// ErrNotFound is returned by GetDetails when the backend has no such movie.
var ErrNotFound = errors.New("movie not found")

// MovieProvider is a movie database backend.
type MovieProvider interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// SearchByTitle returns movies whose title matches query.
	SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error)
	// SearchByTerm discovers movies related to a genre or person name.
	SearchByTerm(ctx context.Context, term string, page int) ([]models.MovieSummary, error)
	// GetDetails fetches and normalizes a single movie.
	GetDetails(ctx context.Context, id string) (models.Movie, error)
}
