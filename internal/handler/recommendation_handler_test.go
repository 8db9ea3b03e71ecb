package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-recommender/internal/candidates"
	"movie-recommender/internal/config"
	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
	"movie-recommender/internal/provider/providertest"
	"movie-recommender/internal/recommend"
	"movie-recommender/internal/service"
)

var (
	heat = models.Movie{
		ID: "tt0113277", Title: "Heat", Year: 1995,
		Genres: []string{"Crime", "Drama"}, Director: "Michael Mann",
		Actors: []string{"Al Pacino", "Robert De Niro"},
	}
	collateral = models.Movie{
		ID: "tt0369339", Title: "Collateral", Year: 2004,
		Genres: []string{"Crime", "Drama", "Thriller"}, Director: "Michael Mann",
		Actors: []string{"Tom Cruise", "Jamie Foxx"},
	}
	casino = models.Movie{
		ID: "tt0112641", Title: "Casino", Year: 1995,
		Genres: []string{"Crime", "Drama"}, Director: "Martin Scorsese",
		Actors: []string{"Robert De Niro", "Sharon Stone"},
	}
	frozen = models.Movie{
		ID: "tt2294629", Title: "Frozen", Year: 2013,
		Genres: []string{"Animation"}, Director: "Chris Buck",
	}
)

func newTestApp(t *testing.T) (*fiber.App, *providertest.Fake) {
	t.Helper()

	fake := providertest.NewFake(heat, collateral, casino, frozen).
		OnTerm("Crime", casino.ID, collateral.ID).
		OnTerm("Drama", heat.ID, casino.ID).
		OnTerm("Michael Mann", collateral.ID)

	finder := candidates.NewFinder(fake, config.CandidateConfig{
		MaxPool: 50, GenreQueries: 3, DirectorQueries: 2, SearchPage: 1, DetailConcurrency: 2,
	})
	h := NewRecommendationHandler(service.NewRecommendationService(fake, finder), fake.Name())

	app := fiber.New()
	h.Register(app)
	return app, fake
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","service":"movie-recommender","provider":"fake"}`, string(body))
}

func TestSearch(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/movies/search?q=heat", "")
	require.Equal(t, http.StatusOK, status)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, heat.ID, resp.Results[0].ID)
}

func TestSearch_MissingQuery(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/movies/search?q=%20", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"query parameter q is required"}`, string(body))
}

func TestGetMovie(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/movies/"+casino.ID, "")
	require.Equal(t, http.StatusOK, status)

	var got models.Movie
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, casino, got)

	status, _ = do(t, app, http.MethodGet, "/api/v1/movies/tt404", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRecommendTop(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/recommendations/top",
		fmt.Sprintf(`{"movie_ids":[%q]}`, heat.ID))
	require.Equal(t, http.StatusOK, status)

	var resp models.TopRecommendationResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Recommendation)
	assert.Empty(t, resp.Message)
	assert.NotEqual(t, heat.ID, resp.Recommendation.Movie.ID)
	assert.NotEmpty(t, resp.Recommendation.Explanation)
	assert.Greater(t, resp.Recommendation.Score.Total, 0.0)
}

func TestRecommendTop_NoMatch(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/recommendations/top",
		fmt.Sprintf(`{"movie_ids":[%q]}`, frozen.ID))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"recommendation":null,"message":"`+NoMatchMessage+`"}`, string(body))
}

func TestRecommend_List(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/recommendations",
		fmt.Sprintf(`{"movie_ids":[%q],"limit":2}`, heat.ID))
	require.Equal(t, http.StatusOK, status)

	var resp models.RecommendationListResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Recommendations, 2)
	assert.GreaterOrEqual(t, resp.Recommendations[0].Score.Total, resp.Recommendations[1].Score.Total)
}

func TestRecommend_BadRequests(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"movie_ids":`, "invalid request body"},
		{"no ids", `{"movie_ids":[]}`, recommend.ErrNoReferences.Error()},
		{"missing ids", `{}`, recommend.ErrNoReferences.Error()},
		{"too many", `{"movie_ids":["a","b","c","d"]}`, recommend.ErrTooManyReferences.Error()},
		{"blank id", `{"movie_ids":[""]}`, "movie ids must not be empty"},
		{"limit too large", `{"movie_ids":["a"],"limit":21}`, "limit must be between 1 and 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, "/api/v1/recommendations", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestRecommend_DuplicateSelection(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/recommendations/top",
		fmt.Sprintf(`{"movie_ids":[%q,%q]}`, heat.ID, heat.ID))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecommend_UnknownSelection(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/recommendations/top", `{"movie_ids":["tt404"]}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{recommend.ErrNoReferences, http.StatusBadRequest},
		{fmt.Errorf("x: %w", recommend.ErrTooManyReferences), http.StatusBadRequest},
		{fmt.Errorf("x: %w", service.ErrDuplicateSelection), http.StatusBadRequest},
		{fmt.Errorf("x: %w", provider.ErrNotFound), http.StatusNotFound},
		{provider.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
