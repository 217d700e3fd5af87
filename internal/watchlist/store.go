package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"moviefinder/internal/models"
	"moviefinder/internal/session"
)

// SessionKey is the session key holding the JSON-encoded list.
const SessionKey = "watchlist"

// ErrNotFound is returned by Add when the movie cannot be fetched.
var ErrNotFound = errors.New("movie not found")

// MovieLookup fetches the summary saved for a movie.
type MovieLookup interface {
	Movie(ctx context.Context, id int) (*models.MovieSummary, error)
}

// Store reads and writes watchlists held in session bags.
type Store struct {
	movies MovieLookup
}

// NewStore creates a Store that resolves added ids through movies.
func NewStore(movies MovieLookup) *Store {
	return &Store{movies: movies}
}

// Load decodes the list held in bag. A missing or corrupt value yields an
// empty list.
func (s *Store) Load(bag session.Bag) *List {
	l := &List{}
	if bag == nil {
		return l
	}
	raw, ok := bag.Get(SessionKey).(string)
	if !ok || raw == "" {
		return l
	}
	if err := json.Unmarshal([]byte(raw), &l.entries); err != nil {
		slog.Warn("discarding corrupt watchlist", "error", err)
		return &List{}
	}
	return l
}

func (s *Store) save(bag session.Bag, l *List) error {
	if bag == nil {
		return nil
	}
	if l.Len() == 0 {
		bag.Delete(SessionKey)
		return nil
	}
	b, err := json.Marshal(l.entries)
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	bag.Set(SessionKey, string(b))
	return nil
}

// Add saves id to the list. Adding a present id is a no-op without an
// upstream call.
func (s *Store) Add(ctx context.Context, bag session.Bag, id int) error {
	l := s.Load(bag)
	if l.Contains(id) {
		return nil
	}

	m, err := s.movies.Movie(ctx, id)
	if err != nil {
		slog.Warn("watchlist add failed", "movie_id", id, "error", err)
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	m.ID = id
	if !l.Add(*m) {
		return nil
	}
	return s.save(bag, l)
}

// Remove drops id from the list if present.
func (s *Store) Remove(bag session.Bag, id int) error {
	l := s.Load(bag)
	if !l.Remove(id) {
		return nil
	}
	return s.save(bag, l)
}

// Clear empties the list.
func (s *Store) Clear(bag session.Bag) {
	if bag != nil {
		bag.Delete(SessionKey)
	}
}

// Entries returns the saved movies ordered for display by sortKey. Aliases
// such as "Rating" or "rating.desc" are accepted; an empty key keeps
// insertion order.
func (s *Store) Entries(bag session.Bag, sortKey string) []models.MovieSummary {
	if strings.TrimSpace(sortKey) != "" {
		sortKey = models.NormalizeSort(sortKey)
	}
	return s.Load(bag).Sorted(sortKey)
}

// IDs returns the saved ids as a set, for "in watchlist" markers.
func (s *Store) IDs(bag session.Bag) map[int]bool {
	ids := map[int]bool{}
	for _, id := range s.Load(bag).IDs() {
		ids[id] = true
	}
	return ids
}
