package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	g "maragu.dev/gomponents"

	"moviefinder/internal/service"
	"moviefinder/internal/session"
	"moviefinder/internal/view"
	"moviefinder/internal/watchlist"
)

// MovieHandler serves the HTML pages and the JSON API.
type MovieHandler struct {
	svc       *service.MovieService
	watchlist *watchlist.Store
	view      *view.Renderer
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService, wl *watchlist.Store, renderer *view.Renderer) *MovieHandler {
	return &MovieHandler{svc: svc, watchlist: wl, view: renderer}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "moviefinder",
	})
}

func (h *MovieHandler) viewSession(c fiber.Ctx) view.Session {
	return view.Session{Saved: h.watchlist.IDs(session.FromContext(c))}
}

func render(c fiber.Ctx, status int, page g.Node) error {
	c.Status(status)
	c.Type("html", "utf-8")
	return page.Render(c)
}

func goHome(c fiber.Ctx) error {
	return c.Redirect().Status(fiber.StatusFound).To("/")
}

// renderFailure maps a single-entity service error onto the error page.
func (h *MovieHandler) renderFailure(c fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return render(c, fiber.StatusNotFound, h.view.Error(fiber.StatusNotFound, what+" not found.", h.viewSession(c)))
	case errors.Is(err, service.ErrUnavailable):
		slog.Warn("upstream unavailable", "path", c.Path(), "error", err)
		return render(c, fiber.StatusBadGateway, h.view.Error(fiber.StatusBadGateway, "The movie database is unavailable right now. Please try again shortly.", h.viewSession(c)))
	default:
		return err
	}
}

// apiFailure maps a service error onto the JSON error shape.
func apiFailure(c fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: what + " not found"})
	case errors.Is(err, service.ErrUnavailable):
		slog.Warn("upstream unavailable", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "movie database unavailable"})
	case errors.Is(err, service.ErrMissingQuery):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "missing query parameter q"})
	default:
		return err
	}
}

// ErrorHandler is the last resort for errors returned by handlers and for
// recovered panics. /api routes get a generic JSON body; pages get the error
// view.
func ErrorHandler(renderer *view.Renderer) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code < fiber.StatusInternalServerError {
				message = fe.Message
			}
		}
		if code >= fiber.StatusInternalServerError {
			slog.Error("unhandled error", "error", err, "status", code, "path", c.Path())
		}

		if strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(ErrorResponse{Error: message})
		}
		if code >= fiber.StatusInternalServerError {
			message = err.Error()
		}
		return render(c, code, renderer.Error(code, message, view.Session{}))
	}
}
