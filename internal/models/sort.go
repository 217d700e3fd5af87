package models

import (
	"cmp"
	"slices"
	"strings"
)

// Sort keys accepted by listing and watchlist routes.
const (
	SortPopularity = "popularity"
	SortRating     = "rating"
	SortDate       = "date"
	SortTitle      = "title"
)

// NormalizeSort maps user input onto a known sort key, defaulting to
// popularity.
func NormalizeSort(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortRating, "vote_average", "rating.desc":
		return SortRating
	case SortDate, "release_date", "date.desc":
		return SortDate
	case SortTitle, "title.asc":
		return SortTitle
	default:
		return SortPopularity
	}
}

// UpstreamSortBy returns the TMDB discover sort_by value for a sort key.
func UpstreamSortBy(key string) string {
	switch NormalizeSort(key) {
	case SortRating:
		return "vote_average.desc"
	case SortDate:
		return "primary_release_date.desc"
	case SortTitle:
		return "title.asc"
	default:
		return "popularity.desc"
	}
}

// SortMovies returns a sorted copy of movies. Rating and date sort
// descending, title ascending, popularity descending. The sort is stable and
// the input slice is not modified.
func SortMovies(movies []MovieSummary, key string) []MovieSummary {
	out := slices.Clone(movies)
	switch NormalizeSort(key) {
	case SortRating:
		slices.SortStableFunc(out, func(a, b MovieSummary) int { return cmp.Compare(b.VoteAverage, a.VoteAverage) })
	case SortDate:
		slices.SortStableFunc(out, func(a, b MovieSummary) int { return strings.Compare(b.ReleaseDate, a.ReleaseDate) })
	case SortTitle:
		slices.SortStableFunc(out, func(a, b MovieSummary) int { return strings.Compare(a.Title, b.Title) })
	default:
		slices.SortStableFunc(out, func(a, b MovieSummary) int { return cmp.Compare(b.Popularity, a.Popularity) })
	}
	return out
}

// ListParams holds query parameters shared by listing routes.
type ListParams struct {
	Page int    `query:"page"`
	Sort string `query:"sort"`
}

// Validate sets defaults and clamps the page into [1, maxPage]. An empty
// sort stays empty so callers can keep the upstream order.
func (p *ListParams) Validate(maxPage int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if maxPage > 0 && p.Page > maxPage {
		p.Page = maxPage
	}
	if strings.TrimSpace(p.Sort) != "" {
		p.Sort = NormalizeSort(p.Sort)
	} else {
		p.Sort = ""
	}
}
