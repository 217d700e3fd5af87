package handler

import (
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"moviefinder/internal/models"
	"moviefinder/internal/service"
	"moviefinder/internal/session"
)

func listParams(c fiber.Ctx) models.ListParams {
	return models.ListParams{
		Page: fiber.Query(c, "page", 1),
		Sort: c.Query("sort"),
	}
}

// Home renders the landing page.
func (h *MovieHandler) Home(c fiber.Ctx) error {
	home := h.svc.Home(c.Context())
	return render(c, fiber.StatusOK, h.view.Home(home, h.viewSession(c)))
}

// Search renders search results. A blank query goes back home.
func (h *MovieHandler) Search(c fiber.Ctx) error {
	res, err := h.svc.Search(c.Context(), service.SearchParams{
		Query: c.Query("q"),
		Year:  c.Query("year"),
		Lang:  c.Query("lang"),
		Sort:  c.Query("sort"),
	})
	if errors.Is(err, service.ErrMissingQuery) {
		return goHome(c)
	}
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.view.Search(res, h.viewSession(c)))
}

// Genre renders a genre listing.
func (h *MovieHandler) Genre(c fiber.Ctx) error {
	name := c.Params("name")
	list, err := h.svc.Genre(c.Context(), name, listParams(c))
	if errors.Is(err, service.ErrInvalidFilter) {
		return goHome(c)
	}
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.view.List(list, "/genre/"+name, true, h.viewSession(c)))
}

// Language renders movies in one original language.
func (h *MovieHandler) Language(c fiber.Ctx) error {
	name := c.Params("name")
	list, err := h.svc.Language(c.Context(), name, listParams(c))
	if errors.Is(err, service.ErrInvalidFilter) {
		return goHome(c)
	}
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.view.List(list, "/language/"+name, false, h.viewSession(c)))
}

// Decade renders the best movies of a decade.
func (h *MovieHandler) Decade(c fiber.Ctx) error {
	decade := fiber.Params(c, "year", 0)
	list, err := h.svc.Decade(c.Context(), decade, listParams(c))
	if errors.Is(err, service.ErrInvalidFilter) {
		return goHome(c)
	}
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.view.List(list, "/decade/"+strconv.Itoa(decade), false, h.viewSession(c)))
}

// Category returns the handler for one fixed list such as top-rated.
func (h *MovieHandler) Category(slug string) fiber.Handler {
	return func(c fiber.Ctx) error {
		list, err := h.svc.Category(c.Context(), slug, listParams(c))
		if err != nil {
			return err
		}
		return render(c, fiber.StatusOK, h.view.List(list, "/"+slug, true, h.viewSession(c)))
	}
}

// Movie renders the movie detail page.
func (h *MovieHandler) Movie(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return h.renderFailure(c, service.ErrNotFound, "Movie")
	}
	detail, err := h.svc.MovieDetail(c.Context(), id)
	if err != nil {
		return h.renderFailure(c, err, "Movie")
	}
	return render(c, fiber.StatusOK, h.view.Movie(detail, h.viewSession(c)))
}

// Actor renders the person page.
func (h *MovieHandler) Actor(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return h.renderFailure(c, service.ErrNotFound, "Person")
	}
	person, err := h.svc.PersonDetail(c.Context(), id)
	if err != nil {
		return h.renderFailure(c, err, "Person")
	}
	return render(c, fiber.StatusOK, h.view.Person(person, h.viewSession(c)))
}

// Collection renders a franchise page.
func (h *MovieHandler) Collection(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id <= 0 {
		return h.renderFailure(c, service.ErrNotFound, "Collection")
	}
	col, err := h.svc.Collection(c.Context(), id)
	if err != nil {
		return h.renderFailure(c, err, "Collection")
	}
	return render(c, fiber.StatusOK, h.view.Collection(col, h.viewSession(c)))
}

// MoodPicker renders the mood selection page.
func (h *MovieHandler) MoodPicker(c fiber.Ctx) error {
	return render(c, fiber.StatusOK, h.view.MoodPicker(models.Moods(), h.viewSession(c)))
}

// Mood renders movies for one mood.
func (h *MovieHandler) Mood(c fiber.Ctx) error {
	res, err := h.svc.Mood(c.Context(), c.Params("name"))
	if errors.Is(err, service.ErrInvalidFilter) {
		return goHome(c)
	}
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, h.view.Mood(res, h.viewSession(c)))
}

// Trivia renders a random trivia question.
func (h *MovieHandler) Trivia(c fiber.Ctx) error {
	t, err := h.svc.Trivia(c.Context())
	if err != nil {
		return h.renderFailure(c, err, "Trivia")
	}
	return render(c, fiber.StatusOK, h.view.Trivia(t, h.viewSession(c)))
}

// Random redirects to a random movie, optionally within a genre.
func (h *MovieHandler) Random(c fiber.Ctx) error {
	id, err := h.svc.RandomMovie(c.Context(), c.Query("genre"))
	if err != nil {
		slog.Debug("random pick failed", "genre", c.Query("genre"), "error", err)
		return goHome(c)
	}
	return c.Redirect().Status(fiber.StatusFound).To("/movie/" + strconv.Itoa(id))
}

// About renders the static about page.
func (h *MovieHandler) About(c fiber.Ctx) error {
	return render(c, fiber.StatusOK, h.view.About(h.viewSession(c)))
}

// Watchlist renders the saved movies.
func (h *MovieHandler) Watchlist(c fiber.Ctx) error {
	sort := strings.TrimSpace(c.Query("sort"))
	if sort != "" {
		sort = models.NormalizeSort(sort)
	}
	entries := h.watchlist.Entries(session.FromContext(c), sort)
	return render(c, fiber.StatusOK, h.view.Watchlist(entries, sort, h.viewSession(c)))
}

// WatchlistAdd saves a movie and returns to the referring page.
func (h *MovieHandler) WatchlistAdd(c fiber.Ctx) error {
	id := fiber.Params(c, "id", 0)
	if id > 0 {
		if err := h.watchlist.Add(c.Context(), session.FromContext(c), id); err != nil {
			slog.Info("movie not added to watchlist", "movie_id", id, "error", err)
		}
	}
	return goBack(c)
}

// WatchlistRemove drops a movie and returns to the referring page.
func (h *MovieHandler) WatchlistRemove(c fiber.Ctx) error {
	if err := h.watchlist.Remove(session.FromContext(c), fiber.Params(c, "id", 0)); err != nil {
		return err
	}
	return goBack(c)
}

// goBack returns to the referring page when it is a path on this site and
// goes home otherwise.
func goBack(c fiber.Ctx) error {
	return c.Redirect().Status(fiber.StatusFound).To(localReferer(c.Get(fiber.HeaderReferer), c.Host()))
}

func localReferer(referer, host string) string {
	u, err := url.Parse(referer)
	if err != nil || referer == "" {
		return "/"
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	if u.Host != "" && !strings.EqualFold(u.Host, host) {
		return "/"
	}
	if u.User != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.ContainsRune(u.Path, '\\') {
		return "/"
	}
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// WatchlistClear empties the watchlist.
func (h *MovieHandler) WatchlistClear(c fiber.Ctx) error {
	h.watchlist.Clear(session.FromContext(c))
	return c.Redirect().Status(fiber.StatusFound).To("/watchlist")
}
