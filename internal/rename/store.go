package rename

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps active sessions keyed by user id. Implementations must be safe
// for concurrent use and must replace or delete entries atomically: a read
// racing a delete observes either the prior session or absence, never a
// half-written value.
type Store interface {
	Put(s Session)
	Get(userID int64) (Session, bool)
	Delete(userID int64)
	Count() int
}

// CacheStore is the in-memory Store used in production. Sessions never
// expire on their own; abandonment cleanup is an explicit open point and
// would be a one-line change here (pass a TTL instead of NoExpiration).
type CacheStore struct {
	c *gocache.Cache
}

// NewCacheStore creates an empty session store.
func NewCacheStore() *CacheStore {
	return &CacheStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Put stores the session, silently replacing any previous one for the user.
func (s *CacheStore) Put(sess Session) {
	s.c.Set(key(sess.UserID), sess, gocache.NoExpiration)
}

// Get returns the active session for the user, if any.
func (s *CacheStore) Get(userID int64) (Session, bool) {
	v, ok := s.c.Get(key(userID))
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

// Delete removes the session for the user. Deleting an absent session is a no-op.
func (s *CacheStore) Delete(userID int64) {
	s.c.Delete(key(userID))
}

// Count reports the number of active sessions.
func (s *CacheStore) Count() int {
	return s.c.ItemCount()
}
