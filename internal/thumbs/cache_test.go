package thumbs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data map[int64]string
	gets int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[int64]string)}
}

func (m *memStore) Set(ctx context.Context, userID int64, fileRef string) error {
	m.data[userID] = fileRef
	return nil
}

func (m *memStore) Get(ctx context.Context, userID int64) (string, error) {
	m.gets++
	ref, ok := m.data[userID]
	if !ok {
		return "", ErrNotFound
	}
	return ref, nil
}

func (m *memStore) Delete(ctx context.Context, userID int64) error {
	if _, ok := m.data[userID]; !ok {
		return ErrNotFound
	}
	delete(m.data, userID)
	return nil
}

func TestCachedReadThrough(t *testing.T) {
	backend := newMemStore()
	s := NewCached(backend, 0)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, 1, "ref-1"))
	backend.gets = 0

	ref, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", ref)
	assert.Equal(t, 1, backend.gets)

	// Second read comes from cache.
	ref, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", ref)
	assert.Equal(t, 1, backend.gets)
}

func TestCachedNegativeLookup(t *testing.T) {
	backend := newMemStore()
	s := NewCached(backend, 0)
	ctx := context.Background()

	_, err := s.Get(ctx, 2)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, backend.gets)

	// Absence is cached too.
	_, err = s.Get(ctx, 2)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, backend.gets)
}

func TestCachedSetRefreshesCache(t *testing.T) {
	backend := newMemStore()
	s := NewCached(backend, 0)
	ctx := context.Background()

	_, err := s.Get(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, 3, "ref-3"))

	backend.gets = 0
	ref, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "ref-3", ref)
	assert.Equal(t, 0, backend.gets, "set must prime the cache")
}

func TestCachedDelete(t *testing.T) {
	backend := newMemStore()
	s := NewCached(backend, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 4, "ref-4"))
	require.NoError(t, s.Delete(ctx, 4))

	_, err := s.Get(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing record reports absence to the caller.
	assert.ErrorIs(t, s.Delete(ctx, 4), ErrNotFound)
}

func TestResolverTreatsAbsenceAsEmpty(t *testing.T) {
	backend := newMemStore()
	r := Resolver{Store: backend}
	ctx := context.Background()

	ref, err := r.Resolve(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, ref)

	require.NoError(t, backend.Set(ctx, 5, "ref-5"))
	ref, err = r.Resolve(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ref-5", ref)
}
