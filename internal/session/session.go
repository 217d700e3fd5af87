// Package session holds the per-browser key/value plumbing: the Bag seen by
// request-scoped code and the storage backends behind fiber's session
// middleware.
package session

import (
	"sync"

	"github.com/gofiber/fiber/v3"
	fibersession "github.com/gofiber/fiber/v3/middleware/session"
)

// Bag is the opaque key/value state attached to one browser. fiber's
// *session.Middleware satisfies it.
type Bag interface {
	Get(key any) any
	Set(key, value any)
	Delete(key any)
}

// FromContext returns the session bag of the current request, or nil when the
// session middleware is not installed.
func FromContext(c fiber.Ctx) Bag {
	m := fibersession.FromContext(c)
	if m == nil {
		return nil
	}
	return m
}

// MapBag is an in-memory Bag.
type MapBag struct {
	mu   sync.RWMutex
	data map[any]any
}

// NewMapBag creates an empty MapBag.
func NewMapBag() *MapBag {
	return &MapBag{data: map[any]any{}}
}

func (b *MapBag) Get(key any) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

func (b *MapBag) Set(key, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

func (b *MapBag) Delete(key any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}
