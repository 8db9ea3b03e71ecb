// Package providertest offers an in-memory MovieProvider for tests.
package providertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
)

// Fake serves movies from memory. Search results are keyed by lowercased term.
type Fake struct {
	Movies map[string]models.Movie
	Terms  map[string][]string

	// FailTerms and FailDetails make the named lookups return an error.
	FailTerms   map[string]bool
	FailDetails map[string]bool

	mu          sync.Mutex
	termCalls   []string
	detailCalls []string
}

// NewFake builds a Fake holding movies.
func NewFake(movies ...models.Movie) *Fake {
	f := &Fake{
		Movies:      make(map[string]models.Movie, len(movies)),
		Terms:       make(map[string][]string),
		FailTerms:   make(map[string]bool),
		FailDetails: make(map[string]bool),
	}
	for _, m := range movies {
		f.Movies[m.ID] = m
	}
	return f
}

// OnTerm registers ids as the results of SearchByTerm(term).
func (f *Fake) OnTerm(term string, ids ...string) *Fake {
	f.Terms[strings.ToLower(term)] = ids
	return f
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) SearchByTitle(_ context.Context, query string) ([]models.MovieSummary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.MovieSummary{}, nil
	}
	var out []models.MovieSummary
	for _, m := range f.Movies {
		if strings.Contains(strings.ToLower(m.Title), q) {
			out = append(out, summary(m))
		}
	}
	return out, nil
}

func (f *Fake) SearchByTerm(_ context.Context, term string, _ int) ([]models.MovieSummary, error) {
	key := strings.ToLower(term)

	f.mu.Lock()
	f.termCalls = append(f.termCalls, key)
	f.mu.Unlock()

	if f.FailTerms[key] {
		return nil, fmt.Errorf("search %q: upstream error", term)
	}
	out := make([]models.MovieSummary, 0, len(f.Terms[key]))
	for _, id := range f.Terms[key] {
		m, ok := f.Movies[id]
		if !ok {
			m = models.Movie{ID: id}
		}
		out = append(out, summary(m))
	}
	return out, nil
}

func (f *Fake) GetDetails(_ context.Context, id string) (models.Movie, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	f.mu.Unlock()

	if f.FailDetails[id] {
		return models.Movie{}, fmt.Errorf("details %q: upstream error", id)
	}
	m, ok := f.Movies[id]
	if !ok {
		return models.Movie{}, provider.ErrNotFound
	}
	return m, nil
}

// TermCalls returns the lowercased terms searched so far.
func (f *Fake) TermCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.termCalls...)
}

// DetailCalls returns the IDs whose details were requested so far.
func (f *Fake) DetailCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.detailCalls...)
}

func summary(m models.Movie) models.MovieSummary {
	return models.MovieSummary{ID: m.ID, Title: m.Title, Year: m.Year, Poster: m.Poster}
}
