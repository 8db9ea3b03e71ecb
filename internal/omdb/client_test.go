package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-recommender/internal/config"
	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(
		config.OMDBConfig{APIKey: "k", BaseURL: srv.URL + "/"},
		config.UpstreamConfig{RequestsPerSecond: 1000, Timeout: 5 * time.Second},
	)
}

func TestClient_GetDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("apikey"))
		assert.Equal(t, "tt1375666", q.Get("i"))
		assert.Equal(t, "full", q.Get("plot"))
		_, _ = w.Write([]byte(`{
			"Title": "Inception", "Year": "2010", "Runtime": "148 min",
			"Genre": "Action, Adventure, Sci-Fi", "Director": "Christopher Nolan",
			"Actors": "Leonardo DiCaprio, Joseph Gordon-Levitt, Elliot Page",
			"Plot": "A thief who steals corporate secrets.", "Poster": "https://img/inception.jpg",
			"imdbRating": "8.8", "imdbID": "tt1375666", "Response": "True"
		}`))
	})

	m, err := c.GetDetails(context.Background(), "tt1375666")
	require.NoError(t, err)
	assert.Equal(t, models.Movie{
		ID:       "tt1375666",
		Title:    "Inception",
		Year:     2010,
		Poster:   "https://img/inception.jpg",
		Genres:   []string{"Action", "Adventure", "Sci-Fi"},
		Director: "Christopher Nolan",
		Actors:   []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
		Plot:     "A thief who steals corporate secrets.",
		Rating:   8.8,
		Runtime:  148,
	}, m)
}

func TestClient_GetDetails_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Incorrect IMDb ID."}`))
	})

	_, err := c.GetDetails(context.Background(), "tt0")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "movie", q.Get("type"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "Drama", q.Get("s"))
		_, _ = w.Write([]byte(`{"Search": [
			{"Title": "Drama Queen", "Year": "2004", "imdbID": "tt1", "Type": "movie", "Poster": "N/A"},
			{"Title": "Drama Club", "Year": "2019–2020", "imdbID": "tt2", "Type": "movie", "Poster": "https://p"}
		], "totalResults": "2", "Response": "True"}`))
	})

	got, err := c.SearchByTerm(context.Background(), "Drama", 3)
	require.NoError(t, err)
	assert.Equal(t, []models.MovieSummary{
		{ID: "tt1", Title: "Drama Queen", Year: 2004, Poster: models.PlaceholderPoster},
		{ID: "tt2", Title: "Drama Club", Year: 2019, Poster: "https://p"},
	}, got)
}

func TestClient_Search_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	})

	got, err := c.SearchByTitle(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Search_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Invalid API key!"}`))
	})

	_, err := c.SearchByTitle(context.Background(), "heat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key!")
}

func TestClient_Search_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.SearchByTitle(context.Background(), "heat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
