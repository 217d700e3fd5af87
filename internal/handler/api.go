package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"moviefinder/internal/models"
	"moviefinder/internal/service"
	"moviefinder/internal/session"
)

// ListResponse wraps a bare list of movies.
type ListResponse struct {
	Count   int                   `json:"count"`
	Results []models.MovieSummary `json:"results"`
}

// ReviewResponse is the generated review of one movie.
type ReviewResponse struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Review string `json:"review,omitempty"`
}

func listResponse(movies []models.MovieSummary) ListResponse {
	if movies == nil {
		movies = []models.MovieSummary{}
	}
	return ListResponse{Count: len(movies), Results: movies}
}

// APIWatchlist returns the session watchlist.
// @Summary Watchlist
// @Tags watchlist
// @Produce json
// @Param sort query string false "Display order" Enums(rating,title,date)
// @Success 200 {object} ListResponse
// @Router /api/watchlist [get]
func (h *MovieHandler) APIWatchlist(c fiber.Ctx) error {
	return c.JSON(listResponse(h.watchlist.Entries(session.FromContext(c), c.Query("sort"))))
}

// APIMovie returns the assembled movie detail.
// @Summary Movie detail
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/movie/{id} [get]
func (h *MovieHandler) APIMovie(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "movie")
	}
	detail, err := h.svc.MovieDetail(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(detail)
}

// APISearch runs the refined free-text search.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param q query string true "Free-text description"
// @Param year query string false "Release year (YYYY)"
// @Param lang query string false "Original language name or code"
// @Param sort query string false "Sort key" Enums(popularity,rating,date,title)
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} ErrorResponse
// @Router /api/search [get]
func (h *MovieHandler) APISearch(c fiber.Ctx) error {
	res, err := h.svc.Search(c.Context(), service.SearchParams{
		Query: c.Query("q"),
		Year:  c.Query("year"),
		Lang:  c.Query("lang"),
		Sort:  c.Query("sort"),
	})
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(res)
}

// APIReview returns a generated review for a movie.
// @Summary Generated review
// @Tags enrichment
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} ReviewResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/review/{id} [get]
func (h *MovieHandler) APIReview(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "movie")
	}
	movie, review, err := h.svc.MovieReview(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(ReviewResponse{ID: movie.ID, Title: movie.Title, Review: review})
}

// APITrivia returns a trivia question about a movie.
// @Summary Movie trivia
// @Tags enrichment
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.Trivia
// @Failure 404 {object} ErrorResponse
// @Router /api/trivia/{id} [get]
func (h *MovieHandler) APITrivia(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "movie")
	}
	t, err := h.svc.TriviaFor(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(t)
}

// APITrending returns this week's trending movies.
// @Summary Trending movies
// @Tags movies
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/trending [get]
func (h *MovieHandler) APITrending(c fiber.Ctx) error {
	return c.JSON(listResponse(h.svc.Trending(c.Context())))
}

// APIRecommendations returns recommendations for a movie.
// @Summary Recommendations
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} ListResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/recommendations/{id} [get]
func (h *MovieHandler) APIRecommendations(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "movie")
	}
	movies, err := h.svc.Recommendations(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(listResponse(movies))
}

// APISimilar returns titles similar to a movie.
// @Summary Similar movies
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} ListResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/similar/{id} [get]
func (h *MovieHandler) APISimilar(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "movie")
	}
	movies, err := h.svc.Similar(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "movie")
	}
	return c.JSON(listResponse(movies))
}

// APIActor returns the assembled person detail.
// @Summary Person detail
// @Tags people
// @Produce json
// @Param id path int true "TMDB person ID"
// @Success 200 {object} models.PersonDetail
// @Failure 404 {object} ErrorResponse
// @Router /api/actor/{id} [get]
func (h *MovieHandler) APIActor(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return apiFailure(c, service.ErrNotFound, "person")
	}
	person, err := h.svc.PersonDetail(c.Context(), id)
	if err != nil {
		return apiFailure(c, err, "person")
	}
	return c.JSON(person)
}

// APIGenre returns one page of a genre listing.
// @Summary Genre listing
// @Tags movies
// @Produce json
// @Param name path string true "Genre name"
// @Param page query int false "Page number" default(1)
// @Param sort query string false "Sort key" Enums(popularity,rating,date,title)
// @Success 200 {object} models.MovieList
// @Failure 404 {object} ErrorResponse
// @Router /api/genre/{name} [get]
func (h *MovieHandler) APIGenre(c fiber.Ctx) error {
	list, err := h.svc.Genre(c.Context(), c.Params("name"), listParams(c))
	if errors.Is(err, service.ErrInvalidFilter) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Genre not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(list)
}
