package handler

import (
	"github.com/gofiber/fiber/v3"
)

// Register mounts every page and API route. apiMiddleware runs in front of
// /api only, e.g. the rate limiter.
func Register(app fiber.Router, h *MovieHandler, apiMiddleware ...any) {
	app.Get("/health", h.Health)

	app.Get("/", h.Home)
	app.Get("/search", h.Search)
	app.Get("/genre/:name", h.Genre)
	app.Get("/movie/:id", h.Movie)
	app.Get("/actor/:id", h.Actor)
	app.Get("/mood", h.MoodPicker)
	app.Get("/mood/:name", h.Mood)
	app.Get("/language/:name", h.Language)
	for _, slug := range []string{"top-rated", "now-playing", "upcoming", "popular"} {
		app.Get("/"+slug, h.Category(slug))
	}
	app.Get("/decade/:year", h.Decade)
	app.Get("/collection/:id", h.Collection)
	app.Get("/watchlist", h.Watchlist)
	app.Get("/watchlist/add/:id", h.WatchlistAdd)
	app.Get("/watchlist/remove/:id", h.WatchlistRemove)
	app.Get("/watchlist/clear", h.WatchlistClear)
	app.Get("/trivia", h.Trivia)
	app.Get("/random", h.Random)
	app.Get("/about", h.About)

	api := app.Group("/api", apiMiddleware...)
	api.Get("/watchlist", h.APIWatchlist)
	api.Get("/movie/:id", h.APIMovie)
	api.Get("/search", h.APISearch)
	api.Get("/review/:id", h.APIReview)
	api.Get("/trivia/:id", h.APITrivia)
	api.Get("/trending", h.APITrending)
	api.Get("/recommendations/:id", h.APIRecommendations)
	api.Get("/similar/:id", h.APISimilar)
	api.Get("/actor/:id", h.APIActor)
	api.Get("/genre/:name", h.APIGenre)
}
