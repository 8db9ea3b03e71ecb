package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"movie-recommender/internal/config"
	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
)

// Client is the TMDB API client. It implements provider.MovieProvider.
type Client struct {
	apiKey       string
	accessToken  string
	baseURL      string
	imageBaseURL string
	http         *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a new TMDB API client.
func NewClient(cfg config.TMDBConfig, upstream config.UpstreamConfig) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		accessToken:  cfg.AccessToken,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http: &http.Client{
			Timeout: upstream.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(upstream.RequestsPerSecond), int(upstream.RequestsPerSecond)+1),
	}
}

var _ provider.MovieProvider = (*Client)(nil)

// ---- TMDB Response Types (internal, not exposed to consumers) ----

// SearchResponse is the shape of /search/movie and /discover/movie.
type SearchResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBMovie is a movie from TMDB search or discover results.
type TMDBMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	GenreIDs    []int  `json:"genre_ids"`
}

// TMDBMovieDetail is the detailed movie info from TMDB with credits appended.
type TMDBMovieDetail struct {
	ID          int         `json:"id"`
	IMDbID      string      `json:"imdb_id"`
	Title       string      `json:"title"`
	Overview    string      `json:"overview"`
	ReleaseDate string      `json:"release_date"`
	PosterPath  string      `json:"poster_path"`
	Genres      []TMDBGenre `json:"genres"`
	Runtime     int         `json:"runtime"`
	VoteAverage float64     `json:"vote_average"`
	Credits     *Credits    `json:"credits"`
}

// TMDBGenre is a genre from TMDB.
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits is the append_to_response=credits sub-object.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is a billed actor.
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is a crew credit.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// FindResponse is the /find/{external_id} response.
type FindResponse struct {
	MovieResults []TMDBMovie `json:"movie_results"`
}

// ---- Client Methods ----

func (c *Client) Name() string { return "tmdb" }

// SearchByTitle searches movies by title.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []models.MovieSummary{}, nil
	}

	var result SearchResponse
	if err := c.get(ctx, "/search/movie", url.Values{"query": {query}}, &result); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return c.summaries(result.Results), nil
}

// SearchByTerm uses the discover endpoint for known genre names and falls
// back to a title search for anything else, such as a director's name.
func (c *Client) SearchByTerm(ctx context.Context, term string, page int) ([]models.MovieSummary, error) {
	if strings.TrimSpace(term) == "" {
		return []models.MovieSummary{}, nil
	}
	if page < 1 {
		page = 1
	}

	var (
		path   string
		params = url.Values{"page": {strconv.Itoa(page)}}
	)
	if genreID, ok := GenreID(term); ok {
		path = "/discover/movie"
		params.Set("with_genres", strconv.Itoa(genreID))
		params.Set("sort_by", "popularity.desc")
	} else {
		path = "/search/movie"
		params.Set("query", term)
	}

	slog.Debug("fetching TMDB candidates", "term", term, "path", path, "page", page)
	var result SearchResponse
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("search movies by %q: %w", term, err)
	}
	return c.summaries(result.Results), nil
}

// GetDetails fetches a movie with its credits. id may be a numeric TMDB id
// or an IMDb id ("tt...").
func (c *Client) GetDetails(ctx context.Context, id string) (models.Movie, error) {
	tmdbID, err := c.resolveID(ctx, id)
	if err != nil {
		return models.Movie{}, err
	}

	slog.Debug("fetching TMDB movie detail", "tmdb_id", tmdbID)
	var detail TMDBMovieDetail
	path := fmt.Sprintf("/movie/%d", tmdbID)
	if err := c.get(ctx, path, url.Values{"append_to_response": {"credits"}}, &detail); err != nil {
		return models.Movie{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	return ToMovie(detail, c.imageBaseURL), nil
}

func (c *Client) resolveID(ctx context.Context, id string) (int, error) {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil && n > 0 {
		return n, nil
	}
	if !strings.HasPrefix(id, "tt") {
		return 0, fmt.Errorf("tmdb id %q: %w", id, provider.ErrNotFound)
	}

	var found FindResponse
	params := url.Values{"external_source": {"imdb_id"}}
	if err := c.get(ctx, "/find/"+url.PathEscape(id), params, &found); err != nil {
		return 0, fmt.Errorf("find %s: %w", id, err)
	}
	if len(found.MovieResults) == 0 {
		return 0, fmt.Errorf("imdb id %s: %w", id, provider.ErrNotFound)
	}
	return found.MovieResults[0].ID, nil
}

func (c *Client) summaries(movies []TMDBMovie) []models.MovieSummary {
	out := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		out = append(out, models.MovieSummary{
			ID:     strconv.Itoa(m.ID),
			Title:  m.Title,
			Year:   releaseYear(m.ReleaseDate),
			Poster: posterURL(c.imageBaseURL, m.PosterPath),
		})
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if c.accessToken == "" {
		params.Set("api_key", c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return provider.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
