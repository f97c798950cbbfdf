package thumbs

import (
	"context"
	"errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// notFoundMarker caches negative lookups so repeated deliveries by a user
// without a thumbnail skip the database.
const notFoundMarker = ""

// Cached is a read-through cache over another Store. Writes and deletes go
// straight to the backend and refresh the cache entry.
type Cached struct {
	backend Store
	c       *gocache.Cache
}

// NewCached wraps backend with an in-memory cache. TTL bounds staleness for
// multi-instance deployments; 0 means entries never expire.
func NewCached(backend Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cached{
		backend: backend,
		c:       gocache.New(ttl, 10*time.Minute),
	}
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Set stores the reference in the backend and updates the cache.
func (s *Cached) Set(ctx context.Context, userID int64, fileRef string) error {
	if err := s.backend.Set(ctx, userID, fileRef); err != nil {
		return err
	}
	s.c.SetDefault(cacheKey(userID), fileRef)
	return nil
}

// Get serves from cache when possible, otherwise falls through to the
// backend and remembers the result, including absence.
func (s *Cached) Get(ctx context.Context, userID int64) (string, error) {
	if v, ok := s.c.Get(cacheKey(userID)); ok {
		ref := v.(string)
		if ref == notFoundMarker {
			return "", ErrNotFound
		}
		return ref, nil
	}

	ref, err := s.backend.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		s.c.SetDefault(cacheKey(userID), notFoundMarker)
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	s.c.SetDefault(cacheKey(userID), ref)
	return ref, nil
}

// Delete removes the record from the backend and caches the absence.
func (s *Cached) Delete(ctx context.Context, userID int64) error {
	err := s.backend.Delete(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	s.c.SetDefault(cacheKey(userID), notFoundMarker)
	return err
}
