package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"

	"moviefinder/internal/models"
	"moviefinder/internal/tmdb"
)

var (
	// ErrNotFound means the requested movie, person or collection does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the metadata API could not be reached for a
	// single-entity request.
	ErrUnavailable = errors.New("movie database unavailable")
	// ErrMissingQuery is returned by Search when the query is blank.
	ErrMissingQuery = errors.New("missing query parameter")
	// ErrInvalidFilter is returned for genre, mood, language or decade
	// values outside the lookup tables.
	ErrInvalidFilter = errors.New("unknown filter")
)

// Completer produces short generated text. ok == false means the
// enrichment should be omitted.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (text string, ok bool)
}

// MovieService composes metadata requests and enrichment for every route.
type MovieService struct {
	tmdbClient *tmdb.Client
	ai         Completer

	shuffle func(n int, swap func(i, j int))
	intN    func(n int) int
}

// NewMovieService creates a new MovieService. ai may be nil.
func NewMovieService(tmdbClient *tmdb.Client, ai Completer) *MovieService {
	return &MovieService{
		tmdbClient: tmdbClient,
		ai:         ai,
		shuffle:    rand.Shuffle,
		intN:       rand.IntN,
	}
}

// WithRand replaces the random source used for mood shuffles, random picks
// and trivia. Intended for deterministic tests.
func (s *MovieService) WithRand(r *rand.Rand) *MovieService {
	s.shuffle = r.Shuffle
	s.intN = r.IntN
	return s
}

// complete asks for an enrichment and returns "" when it is unavailable.
func (s *MovieService) complete(ctx context.Context, prompt string, maxTokens int) string {
	if s.ai == nil {
		return ""
	}
	text, ok := s.ai.Complete(ctx, prompt, maxTokens)
	if !ok {
		return ""
	}
	return text
}

// fetchList fetches a movie list and degrades every failure to an empty
// page, which is what listing routes render.
func (s *MovieService) fetchList(ctx context.Context, path string, params url.Values) *tmdb.MovieListResponse {
	res, err := s.tmdbClient.MovieList(ctx, path, params)
	if err != nil {
		slog.Warn("movie list unavailable, rendering empty", "path", path, "error", err)
		return &tmdb.MovieListResponse{}
	}
	return res
}

// classify maps client errors onto service errors for single-entity routes.
func classify(err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func toSummary(m tmdb.MovieItem) models.MovieSummary {
	return models.MovieSummary{
		ID:               m.ID,
		Title:            m.Title,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      m.VoteAverage,
		ReleaseDate:      m.ReleaseDate,
		Overview:         m.Overview,
		Popularity:       m.Popularity,
		GenreIDs:         m.GenreIDs,
		OriginalLanguage: m.OriginalLanguage,
	}
}

func toSummaries(items []tmdb.MovieItem) []models.MovieSummary {
	out := make([]models.MovieSummary, 0, len(items))
	for _, m := range items {
		if m.ID == 0 {
			continue
		}
		out = append(out, toSummary(m))
	}
	return out
}

func movieSummary(m *tmdb.Movie) models.MovieSummary {
	genreIDs := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return models.MovieSummary{
		ID:               m.ID,
		Title:            m.Title,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      m.VoteAverage,
		ReleaseDate:      m.ReleaseDate,
		Overview:         m.Overview,
		Popularity:       m.Popularity,
		GenreIDs:         genreIDs,
		OriginalLanguage: m.OriginalLanguage,
	}
}

func capped[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
