package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"movie-recommender/internal/candidates"
	"movie-recommender/internal/metrics"
	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
	"movie-recommender/internal/recommend"
)

// DefaultLimit is the list size used when a caller does not ask for one.
const DefaultLimit = 5

// ErrDuplicateSelection is returned when the same movie is selected twice.
var ErrDuplicateSelection = errors.New("movie is already selected")

// RecommendationService turns a selection of movie ids into ranked
// recommendations.
type RecommendationService struct {
	provider provider.MovieProvider
	finder   *candidates.Finder
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(p provider.MovieProvider, finder *candidates.Finder) *RecommendationService {
	return &RecommendationService{provider: p, finder: finder}
}

// Search returns movies whose title matches query.
func (s *RecommendationService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	results, err := s.provider.SearchByTitle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	if results == nil {
		results = []models.MovieSummary{}
	}
	return results, nil
}

// GetMovie returns the full record for one movie.
func (s *RecommendationService) GetMovie(ctx context.Context, id string) (models.Movie, error) {
	m, err := s.provider.GetDetails(ctx, id)
	if err != nil {
		return models.Movie{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	return m, nil
}

// Recommend returns the single best match for the selection. ok is false
// when no candidate could be found.
func (s *RecommendationService) Recommend(ctx context.Context, movieIDs []string) (models.RecommendationResult, bool, error) {
	references, pool, err := s.prepare(ctx, movieIDs)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("error").Inc()
		return models.RecommendationResult{}, false, err
	}

	best, ok, err := recommend.Top(pool, references)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("error").Inc()
		return models.RecommendationResult{}, false, err
	}
	recordOutcome(ok)
	return best, ok, nil
}

// RecommendMany returns up to limit ranked matches, DefaultLimit when limit
// is not positive.
func (s *RecommendationService) RecommendMany(ctx context.Context, movieIDs []string, limit int) ([]models.RecommendationResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	references, pool, err := s.prepare(ctx, movieIDs)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("error").Inc()
		return nil, err
	}

	results, err := recommend.TopN(pool, references, limit)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues("error").Inc()
		return nil, err
	}
	recordOutcome(len(results) > 0)
	return results, nil
}

func (s *RecommendationService) prepare(ctx context.Context, movieIDs []string) ([]models.Movie, []models.Movie, error) {
	references, err := s.resolve(ctx, movieIDs)
	if err != nil {
		return nil, nil, err
	}

	pool, err := s.finder.Find(ctx, references)
	if err != nil {
		return nil, nil, fmt.Errorf("find candidates: %w", err)
	}

	slog.Info("recommendation pool ready",
		"provider", s.provider.Name(),
		"references", len(references),
		"candidates", len(pool),
	)
	return references, pool, nil
}

// resolve validates the selection and fetches every selected movie in
// parallel. Any unresolvable selection fails the whole request.
func (s *RecommendationService) resolve(ctx context.Context, movieIDs []string) ([]models.Movie, error) {
	if err := validateSelection(movieIDs); err != nil {
		return nil, err
	}

	references := make([]models.Movie, len(movieIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range movieIDs {
		g.Go(func() error {
			m, err := s.provider.GetDetails(gctx, strings.TrimSpace(id))
			if err != nil {
				return fmt.Errorf("resolve selection %s: %w", id, err)
			}
			references[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Different id forms ("603", "tt0133093") can name the same movie.
	seen := make(map[string]bool, len(references))
	for _, m := range references {
		if seen[m.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSelection, m.ID)
		}
		seen[m.ID] = true
	}

	return references, nil
}

func validateSelection(movieIDs []string) error {
	switch {
	case len(movieIDs) == 0:
		return recommend.ErrNoReferences
	case len(movieIDs) > recommend.MaxReferences:
		return fmt.Errorf("%w: got %d", recommend.ErrTooManyReferences, len(movieIDs))
	}

	seen := make(map[string]bool, len(movieIDs))
	for _, id := range movieIDs {
		id = strings.TrimSpace(id)
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateSelection, id)
		}
		seen[id] = true
	}
	return nil
}

func recordOutcome(found bool) {
	if found {
		metrics.RecommendationsServed.WithLabelValues("match").Inc()
		return
	}
	metrics.RecommendationsServed.WithLabelValues("no_match").Inc()
}
