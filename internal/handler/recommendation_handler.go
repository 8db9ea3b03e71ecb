package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"movie-recommender/internal/models"
	"movie-recommender/internal/provider"
	"movie-recommender/internal/recommend"
	"movie-recommender/internal/service"
)

// NoMatchMessage is returned alongside an empty result.
const NoMatchMessage = "No recommendations found. Try selecting different movies."

// RecommendationHandler handles HTTP requests for search and recommendations.
type RecommendationHandler struct {
	svc      *service.RecommendationService
	provider string
	validate *validator.Validate
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService, providerName string) *RecommendationHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RecommendationHandler{svc: svc, provider: providerName, validate: v}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register mounts the API routes on router.
func (h *RecommendationHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)

	api := router.Group("/api/v1")
	api.Get("/movies/search", h.Search)
	api.Get("/movies/:id", h.GetMovie)
	api.Post("/recommendations/top", h.RecommendTop)
	api.Post("/recommendations", h.Recommend)
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *RecommendationHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "movie-recommender",
		"provider": h.provider,
	})
}

// Search returns movies whose title matches q.
// @Summary Search movies by title
// @Tags movies
// @Produce json
// @Param q query string true "Title query"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/movies/search [get]
func (h *RecommendationHandler) Search(c fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter q is required",
		})
	}

	results, err := h.svc.Search(c.Context(), q)
	if err != nil {
		return h.fail(c, err, "search failed", "query", q)
	}

	return c.JSON(models.SearchResponse{Results: results})
}

// GetMovie returns the normalized record for one movie.
// @Summary Get movie
// @Tags movies
// @Produce json
// @Param id path string true "Provider movie ID or IMDb ID"
// @Success 200 {object} models.Movie
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/movies/{id} [get]
func (h *RecommendationHandler) GetMovie(c fiber.Ctx) error {
	id := c.Params("id")

	movie, err := h.svc.GetMovie(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "failed to get movie", "movie_id", id)
	}

	return c.JSON(movie)
}

// RecommendTop returns the single best match for the selected movies.
// @Summary Best recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body models.RecommendRequest true "Selected movies"
// @Success 200 {object} models.TopRecommendationResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/recommendations/top [post]
func (h *RecommendationHandler) RecommendTop(c fiber.Ctx) error {
	req, err := h.bind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	best, ok, err := h.svc.Recommend(c.Context(), req.MovieIDs)
	if err != nil {
		return h.fail(c, err, "recommendation failed", "movie_ids", req.MovieIDs)
	}
	if !ok {
		return c.JSON(models.TopRecommendationResponse{Message: NoMatchMessage})
	}

	return c.JSON(models.TopRecommendationResponse{Recommendation: &best})
}

// Recommend returns up to limit ranked matches for the selected movies.
// @Summary Ranked recommendations
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body models.RecommendRequest true "Selected movies and limit"
// @Success 200 {object} models.RecommendationListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/recommendations [post]
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	req, err := h.bind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	results, err := h.svc.RecommendMany(c.Context(), req.MovieIDs, req.Limit)
	if err != nil {
		return h.fail(c, err, "recommendation failed", "movie_ids", req.MovieIDs)
	}

	resp := models.RecommendationListResponse{
		Recommendations: results,
		Count:           len(results),
	}
	if len(results) == 0 {
		resp.Message = NoMatchMessage
	}
	return c.JSON(resp)
}

func (h *RecommendationHandler) bind(c fiber.Ctx) (models.RecommendRequest, error) {
	var req models.RecommendRequest
	if err := c.Bind().JSON(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return req, errors.New(validationMessage(err))
	}
	return req, nil
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	switch {
	case fe.Field() == "movie_ids" && (fe.Tag() == "required" || fe.Tag() == "min"):
		return recommend.ErrNoReferences.Error()
	case fe.Field() == "movie_ids" && fe.Tag() == "max":
		return recommend.ErrTooManyReferences.Error()
	case strings.HasPrefix(fe.Field(), "movie_ids["):
		return "movie ids must not be empty"
	case fe.Field() == "limit":
		return "limit must be between 1 and 20"
	}
	return fmt.Sprintf("invalid %s", fe.Field())
}

// fail maps service errors to HTTP status codes.
func (h *RecommendationHandler) fail(c fiber.Ctx, err error, msg string, args ...any) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error(msg, append(args, "error", err)...)
	}

	body := ErrorResponse{Error: err.Error()}
	switch status {
	case fiber.StatusServiceUnavailable:
		body.Error = provider.ErrUnavailable.Error()
	case fiber.StatusBadGateway:
		body.Error = msg
	}
	return c.Status(status).JSON(body)
}

// StatusFor returns the HTTP status for an error returned by the service.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, recommend.ErrNoReferences),
		errors.Is(err, recommend.ErrTooManyReferences),
		errors.Is(err, service.ErrDuplicateSelection):
		return fiber.StatusBadRequest
	case errors.Is(err, provider.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, provider.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}
