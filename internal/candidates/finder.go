// Package candidates discovers movies worth scoring against a reference set
// by searching the provider for the references' genres and directors.
package candidates

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"movie-recommender/internal/config"
	"movie-recommender/internal/metrics"
	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
)

// Finder builds candidate pools from a MovieProvider.
type Finder struct {
	provider provider.MovieProvider
	cfg      config.CandidateConfig
}

// NewFinder creates a Finder.
func NewFinder(p provider.MovieProvider, cfg config.CandidateConfig) *Finder {
	return &Finder{provider: p, cfg: cfg}
}

// Find returns up to MaxPool detailed movies related to references, none of
// which is a reference. Individual lookup failures shrink the pool rather
// than failing the call; only context cancellation is reported.
func (f *Finder) Find(ctx context.Context, references []models.Movie) ([]models.Movie, error) {
	exclude := make(map[string]bool, len(references))
	for _, r := range references {
		exclude[r.ID] = true
	}

	terms := SearchTerms(references, f.cfg.GenreQueries, f.cfg.DirectorQueries)
	summaries := f.search(ctx, terms)
	ids := mergeIDs(summaries, exclude, f.cfg.MaxPool)

	pool := f.details(ctx, ids)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Movie, 0, len(pool))
	for _, m := range pool {
		// Providers may normalize ids (TMDB prefers the IMDb id), so check again.
		if exclude[m.ID] {
			continue
		}
		exclude[m.ID] = true
		out = append(out, m)
	}

	metrics.CandidatePoolSize.Observe(float64(len(out)))
	slog.Debug("candidate pool built",
		"provider", f.provider.Name(),
		"terms", len(terms),
		"summaries", len(ids),
		"candidates", len(out),
	)
	return out, nil
}

// SearchTerms lists the genre and director queries for references: the first
// genreLimit distinct genres followed by the first directorLimit distinct
// known directors, in first-seen order.
func SearchTerms(references []models.Movie, genreLimit, directorLimit int) []string {
	genres := distinct(references, genreLimit, func(m models.Movie) []string { return m.Genres })
	directors := distinct(references, directorLimit, func(m models.Movie) []string {
		if strings.EqualFold(strings.TrimSpace(m.Director), models.UnknownDirector) {
			return nil
		}
		return []string{m.Director}
	})
	return append(genres, directors...)
}

func distinct(references []models.Movie, limit int, values func(models.Movie) []string) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, r := range references {
		for _, v := range values(r) {
			if len(out) >= limit {
				return out
			}
			v = strings.TrimSpace(v)
			key := strings.ToLower(v)
			if v == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}

// search runs every term concurrently; results keep term order.
func (f *Finder) search(ctx context.Context, terms []string) [][]models.MovieSummary {
	results := make([][]models.MovieSummary, len(terms))

	var g errgroup.Group
	for i, term := range terms {
		g.Go(func() error {
			found, err := f.provider.SearchByTerm(ctx, term, f.cfg.SearchPage)
			if err != nil {
				metrics.CandidateLookupFailures.WithLabelValues("search").Inc()
				slog.Warn("candidate search failed", "provider", f.provider.Name(), "term", term, "error", err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func mergeIDs(results [][]models.MovieSummary, exclude map[string]bool, limit int) []string {
	ids := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, list := range results {
		for _, s := range list {
			if len(ids) >= limit {
				return ids
			}
			if s.ID == "" || exclude[s.ID] || seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// details fetches ids with bounded concurrency, dropping failures while
// keeping the input order.
func (f *Finder) details(ctx context.Context, ids []string) []models.Movie {
	fetched := make([]*models.Movie, len(ids))

	var g errgroup.Group
	g.SetLimit(max(f.cfg.DetailConcurrency, 1))
	for i, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			m, err := f.provider.GetDetails(ctx, id)
			if err != nil {
				metrics.CandidateLookupFailures.WithLabelValues("details").Inc()
				slog.Warn("candidate details failed", "provider", f.provider.Name(), "movie_id", id, "error", err)
				return nil
			}
			fetched[i] = &m
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Movie, 0, len(ids))
	for _, m := range fetched {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}
