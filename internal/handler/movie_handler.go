package handler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"cinescope-api/internal/service"
)

// MissingTitleMessage is returned when /search is called without a title.
const MissingTitleMessage = "A 'title' query parameter is required."

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes mounts the movie routes on r. Static paths are
// registered before the :id catch-all.
func (h *MovieHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.Health)

	movies := r.Group("/movies")
	movies.Get("/popular", h.Popular)
	movies.Get("/top-rated", h.TopRated)
	movies.Get("/upcoming", h.Upcoming)
	movies.Get("/search", h.Search)
	movies.Get("/:id", h.GetMovieDetail)
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "ok",
		"service":           "cinescope-api",
		"cache":             h.svc.CacheBackend(),
		"upstream_requests": h.svc.UpstreamRequests(),
	})
}

// Popular returns the popular movies listing.
// @Summary Popular movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.MovieSummary
// @Failure 500 {object} ErrorResponse
// @Router /movies/popular [get]
func (h *MovieHandler) Popular(c fiber.Ctx) error {
	return h.list(c, service.ListPopular)
}

// TopRated returns the top rated movies listing.
// @Summary Top rated movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.MovieSummary
// @Failure 500 {object} ErrorResponse
// @Router /movies/top-rated [get]
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	return h.list(c, service.ListTopRated)
}

// Upcoming returns the upcoming movies listing.
// @Summary Upcoming movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.MovieSummary
// @Failure 500 {object} ErrorResponse
// @Router /movies/upcoming [get]
func (h *MovieHandler) Upcoming(c fiber.Ctx) error {
	return h.list(c, service.ListUpcoming)
}

func (h *MovieHandler) list(c fiber.Ctx, kind service.ListKind) error {
	movies, err := h.svc.ListMovies(c.Context(), kind)
	if err != nil {
		slog.Error("failed to list movies", "list", kind, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(movies)
}

// Search looks movies up by title.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param title query string true "Movie title"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/search [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: MissingTitleMessage,
		})
	}
	page := fiber.Query(c, "page", 1)

	result, err := h.svc.SearchMovies(c.Context(), title, page)
	if err != nil {
		slog.Error("failed to search movies", "title", title, "page", page, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(result)
}

// GetMovieDetail returns detailed info for a single movie.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieDetail(c fiber.Ctx) error {
	idStr := c.Params("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid movie ID",
		})
	}

	detail, err := h.svc.GetMovieDetail(c.Context(), id)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: err.Error(),
			})
		}
		slog.Error("failed to get movie detail", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(detail)
}

func isNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
