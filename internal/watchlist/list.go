// Package watchlist keeps a per-session, insertion-ordered list of saved
// movies.
package watchlist

import (
	"slices"

	"moviefinder/internal/models"
)

// List is an insertion-ordered set of movies keyed by id.
type List struct {
	entries []models.MovieSummary
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Contains reports whether id is in the list.
func (l *List) Contains(id int) bool {
	return l.index(id) >= 0
}

// Add appends m unless its id is already present. It reports whether the
// list changed.
func (l *List) Add(m models.MovieSummary) bool {
	if m.ID == 0 || l.Contains(m.ID) {
		return false
	}
	l.entries = append(l.entries, m)
	return true
}

// Remove deletes id and reports whether it was present.
func (l *List) Remove(id int) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

// IDs returns the ids in insertion order.
func (l *List) IDs() []int {
	ids := make([]int, len(l.entries))
	for i, m := range l.entries {
		ids[i] = m.ID
	}
	return ids
}

// Sorted returns a display copy. rating, title and date reorder the copy;
// any other key keeps insertion order.
func (l *List) Sorted(key string) []models.MovieSummary {
	switch key {
	case models.SortRating, models.SortTitle, models.SortDate:
		return models.SortMovies(l.entries, key)
	default:
		return slices.Clone(l.entries)
	}
}

func (l *List) index(id int) int {
	return slices.IndexFunc(l.entries, func(m models.MovieSummary) bool { return m.ID == id })
}
