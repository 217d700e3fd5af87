package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"moviefinder/internal/models"
	"moviefinder/internal/tmdb"
)

const (
	moodListSize    = 12
	homeTrendingLen = 18
	homePopularLen  = 12
	homeTopPicksLen = 6
	randomPageSpan  = 5
)

// Category is a fixed TMDB list exposed as its own route.
type Category struct {
	Slug     string
	Title    string
	Path     string
	MaxPages int
}

var categories = map[string]Category{
	"top-rated":   {Slug: "top-rated", Title: "Top Rated Movies", Path: "movie/top_rated", MaxPages: 10},
	"popular":     {Slug: "popular", Title: "Popular Movies", Path: "movie/popular", MaxPages: 10},
	"now-playing": {Slug: "now-playing", Title: "Now Playing", Path: "movie/now_playing", MaxPages: 5},
	"upcoming":    {Slug: "upcoming", Title: "Upcoming Movies", Path: "movie/upcoming", MaxPages: 5},
}

const discoverMaxPages = 10

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// LookupCategory returns the fixed list registered under slug.
func LookupCategory(slug string) (Category, bool) {
	c, ok := categories[slug]
	return c, ok
}

// Home fetches the landing page lists concurrently. Each list degrades to
// empty on its own.
func (s *MovieService) Home(ctx context.Context) *models.Home {
	var trending, popular, topRated []models.MovieSummary

	p := pool.New()
	p.Go(func() {
		trending = toSummaries(s.fetchList(ctx, "trending/movie/week", nil).Results)
	})
	p.Go(func() {
		popular = toSummaries(s.fetchList(ctx, "movie/popular", nil).Results)
	})
	p.Go(func() {
		topRated = toSummaries(s.fetchList(ctx, "movie/top_rated", nil).Results)
	})
	p.Wait()

	home := &models.Home{
		Trending: []models.MovieSummary{},
		Popular:  capped(popular, homePopularLen),
		TopPicks: capped(topRated, homeTopPicksLen),
	}
	if len(trending) > 0 {
		featured := trending[0]
		home.Featured = &featured
		home.Trending = capped(trending[1:], homeTrendingLen)
	}
	return home
}

// Trending returns this week's trending movies.
func (s *MovieService) Trending(ctx context.Context) []models.MovieSummary {
	return toSummaries(s.fetchList(ctx, "trending/movie/week", nil).Results)
}

// Category returns one page of a fixed list. The list keeps upstream order
// unless a sort is requested, in which case it is sorted in memory.
func (s *MovieService) Category(ctx context.Context, slug string, params models.ListParams) (*models.MovieList, error) {
	cat, ok := categories[slug]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidFilter, slug)
	}
	params.Validate(cat.MaxPages)

	res := s.fetchList(ctx, cat.Path, url.Values{"page": {strconv.Itoa(params.Page)}})
	movies := toSummaries(res.Results)
	if params.Sort != "" {
		movies = models.SortMovies(movies, params.Sort)
	}
	return pageOf(cat.Title, params, res, movies, cat.MaxPages), nil
}

// Genre returns one page of a genre listing, sorted upstream.
func (s *MovieService) Genre(ctx context.Context, name string, params models.ListParams) (*models.MovieList, error) {
	g, ok := models.LookupGenre(name)
	if !ok {
		return nil, fmt.Errorf("%w: genre %q", ErrInvalidFilter, name)
	}
	params.Validate(discoverMaxPages)

	q := discoverParams(params)
	q.Set("with_genres", strconv.Itoa(g.ID))
	q.Set("vote_count.gte", "100")

	res := s.fetchList(ctx, "discover/movie", q)
	return pageOf(g.Name+" Movies", params, res, toSummaries(res.Results), discoverMaxPages), nil
}

// Language returns one page of movies whose original language matches.
func (s *MovieService) Language(ctx context.Context, name string, params models.ListParams) (*models.MovieList, error) {
	lang, ok := models.LookupLanguage(name)
	if !ok {
		return nil, fmt.Errorf("%w: language %q", ErrInvalidFilter, name)
	}
	params.Validate(discoverMaxPages)

	q := discoverParams(params)
	q.Set("with_original_language", lang.Code)

	res := s.fetchList(ctx, "discover/movie", q)
	return pageOf(lang.Name+" Movies", params, res, toSummaries(res.Results), discoverMaxPages), nil
}

// Decade returns one page of movies released within the decade.
func (s *MovieService) Decade(ctx context.Context, decade int, params models.ListParams) (*models.MovieList, error) {
	from, to, ok := models.DecadeRange(decade)
	if !ok {
		return nil, fmt.Errorf("%w: decade %d", ErrInvalidFilter, decade)
	}
	params.Validate(discoverMaxPages)

	q := discoverParams(params)
	q.Set("primary_release_date.gte", from)
	q.Set("primary_release_date.lte", to)
	q.Set("vote_count.gte", "100")

	res := s.fetchList(ctx, "discover/movie", q)
	return pageOf(fmt.Sprintf("Best of the %ds", decade), params, res, toSummaries(res.Results), discoverMaxPages), nil
}

// Mood returns up to twelve shuffled movies matching the mood's genres and
// an optional generated message.
func (s *MovieService) Mood(ctx context.Context, name string) (*models.MoodResult, error) {
	mood, ok := models.LookupMood(name)
	if !ok {
		return nil, fmt.Errorf("%w: mood %q", ErrInvalidFilter, name)
	}

	q := url.Values{}
	q.Set("with_genres", mood.GenreFilter())
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")
	q.Set("vote_count.gte", "50")

	movies := toSummaries(s.fetchList(ctx, "discover/movie", q).Results)
	s.shuffle(len(movies), func(i, j int) { movies[i], movies[j] = movies[j], movies[i] })
	movies = capped(movies, moodListSize)

	result := &models.MoodResult{Mood: mood, Movies: movies}
	if len(movies) > 0 {
		titles := make([]string, 0, 5)
		for _, m := range capped(movies, 5) {
			titles = append(titles, m.Title)
		}
		result.Message = s.complete(ctx, moodPrompt(mood.Name, titles), moodMaxTokens)
	}
	return result, nil
}

// SearchParams holds the inputs of a free-text search.
type SearchParams struct {
	Query string
	Year  string
	Lang  string
	Sort  string
}

// Search refines the query through text generation, searches with the
// refined terms and falls back once to the original query when the refined
// search comes back empty.
func (s *MovieService) Search(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	refined := s.complete(ctx, refinePrompt(query), refineMaxTokens)
	if refined == "" {
		refined = query
	}

	q := url.Values{}
	q.Set("include_adult", "false")
	year := strings.TrimSpace(params.Year)
	if yearPattern.MatchString(year) {
		q.Set("primary_release_year", year)
	} else {
		year = ""
	}

	movies := s.search(ctx, refined, q)
	if len(movies) == 0 && refined != query {
		slog.Debug("refined search empty, falling back to original query", "query", query, "refined", refined)
		movies = s.search(ctx, query, q)
	}

	result := &models.SearchResult{Query: query, Refined: refined, Year: year}

	if lang, ok := models.LookupLanguage(params.Lang); ok {
		result.Lang = lang.Code
		filtered := movies[:0]
		for _, m := range movies {
			if m.OriginalLanguage == lang.Code {
				filtered = append(filtered, m)
			}
		}
		movies = filtered
	}

	if strings.TrimSpace(params.Sort) != "" {
		result.Sort = models.NormalizeSort(params.Sort)
		movies = models.SortMovies(movies, result.Sort)
	}
	result.Movies = movies
	return result, nil
}

func (s *MovieService) search(ctx context.Context, terms string, base url.Values) []models.MovieSummary {
	q := url.Values{}
	for k, v := range base {
		q[k] = v
	}
	q.Set("query", terms)
	return toSummaries(s.fetchList(ctx, "search/movie", q).Results)
}

// RandomMovie picks a random movie id, optionally restricted to a genre.
func (s *MovieService) RandomMovie(ctx context.Context, genre string) (int, error) {
	q := url.Values{}
	if strings.TrimSpace(genre) != "" {
		g, ok := models.LookupGenre(genre)
		if !ok {
			return 0, fmt.Errorf("%w: genre %q", ErrInvalidFilter, genre)
		}
		q.Set("with_genres", strconv.Itoa(g.ID))
	}
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")
	q.Set("vote_count.gte", "100")
	q.Set("page", strconv.Itoa(1+s.intN(randomPageSpan)))

	movies := toSummaries(s.fetchList(ctx, "discover/movie", q).Results)
	if len(movies) == 0 {
		return 0, ErrNotFound
	}
	return movies[s.intN(len(movies))].ID, nil
}

// Recommendations returns TMDB recommendations for a movie.
func (s *MovieService) Recommendations(ctx context.Context, movieID int) ([]models.MovieSummary, error) {
	return s.relatedList(ctx, fmt.Sprintf("movie/%d/recommendations", movieID))
}

// Similar returns titles similar to a movie.
func (s *MovieService) Similar(ctx context.Context, movieID int) ([]models.MovieSummary, error) {
	return s.relatedList(ctx, fmt.Sprintf("movie/%d/similar", movieID))
}

func (s *MovieService) relatedList(ctx context.Context, path string) ([]models.MovieSummary, error) {
	res, err := s.tmdbClient.MovieList(ctx, path, nil)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Warn("related list unavailable, returning empty", "path", path, "error", err)
		return []models.MovieSummary{}, nil
	}
	return toSummaries(res.Results), nil
}

func discoverParams(params models.ListParams) url.Values {
	q := url.Values{}
	q.Set("sort_by", models.UpstreamSortBy(params.Sort))
	q.Set("include_adult", "false")
	q.Set("page", strconv.Itoa(params.Page))
	return q
}

func pageOf(title string, params models.ListParams, res *tmdb.MovieListResponse, movies []models.MovieSummary, maxPages int) *models.MovieList {
	total := min(res.TotalPages, maxPages)
	if total < 1 {
		total = 1
	}
	return &models.MovieList{
		Title:        title,
		Page:         params.Page,
		TotalPages:   total,
		TotalResults: res.TotalResults,
		Sort:         params.Sort,
		Movies:       movies,
	}
}
