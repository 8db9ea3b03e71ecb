// Package omdb is the OMDb (IMDb-keyed) movie provider.
package omdb

import (
	"context"
	"fmt"
	"io"
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

const notFoundMessage = "Movie not found!"

// Client is the OMDb API client. It implements provider.MovieProvider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new OMDb API client.
func NewClient(cfg config.OMDBConfig, upstream config.UpstreamConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: upstream.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(upstream.RequestsPerSecond), int(upstream.RequestsPerSecond)+1),
	}
}

var _ provider.MovieProvider = (*Client)(nil)

// SearchResponse is the ?s= response.
type SearchResponse struct {
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
	Error        string         `json:"Error"`
}

// SearchResult is one ?s= hit.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// MovieDetail is the ?i= response. Every field is a string; "N/A" marks absence.
type MovieDetail struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

func (c *Client) Name() string { return "omdb" }

// SearchByTitle searches movies by title.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	return c.search(ctx, query, 1)
}

// SearchByTerm runs a title search for term. OMDb has no genre or person
// index, so genres and directors are matched against titles.
func (c *Client) SearchByTerm(ctx context.Context, term string, page int) ([]models.MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	return c.search(ctx, term, page)
}

func (c *Client) search(ctx context.Context, query string, page int) ([]models.MovieSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []models.MovieSummary{}, nil
	}

	params := url.Values{
		"s":    {query},
		"type": {"movie"},
		"page": {strconv.Itoa(page)},
	}
	var result SearchResponse
	if err := c.get(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("search movies by %q: %w", query, err)
	}
	if result.Response == "False" {
		if result.Error == notFoundMessage {
			return []models.MovieSummary{}, nil
		}
		return nil, fmt.Errorf("search movies by %q: %s", query, result.Error)
	}

	out := make([]models.MovieSummary, 0, len(result.Search))
	for _, s := range result.Search {
		out = append(out, models.MovieSummary{
			ID:     s.IMDbID,
			Title:  s.Title,
			Year:   parseYear(s.Year),
			Poster: orSentinel(s.Poster, models.PlaceholderPoster),
		})
	}
	return out, nil
}

// GetDetails fetches a movie by IMDb id.
func (c *Client) GetDetails(ctx context.Context, id string) (models.Movie, error) {
	params := url.Values{
		"i":    {strings.TrimSpace(id)},
		"plot": {"full"},
	}
	var detail MovieDetail
	if err := c.get(ctx, params, &detail); err != nil {
		return models.Movie{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	if detail.Response == "False" {
		return models.Movie{}, fmt.Errorf("get movie %s: %s: %w", id, detail.Error, provider.ErrNotFound)
	}
	return ToMovie(detail), nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("OMDb API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
