package rename

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStorePutGetDelete(t *testing.T) {
	s := NewCacheStore()

	_, ok := s.Get(1)
	assert.False(t, ok)

	sess := NewSession(1, 10, 100, "ref", "a.txt", 42, KindDocument)
	s.Put(sess)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, s.Count())

	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)

	// Deleting again is a no-op.
	s.Delete(1)
	assert.Equal(t, 0, s.Count())
}

func TestCacheStoreReplaceIsSilent(t *testing.T) {
	s := NewCacheStore()
	first := NewSession(7, 10, 100, "ref-a", "a.txt", 1, KindDocument)
	second := NewSession(7, 10, 101, "ref-b", "b.mp4", 2, KindVideo)

	s.Put(first)
	s.Put(second)

	got, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, second.Token, got.Token)
	assert.Equal(t, "ref-b", got.MediaRef)
	assert.Equal(t, 1, s.Count())
}

func TestCacheStoreConcurrentUsersDoNotInterfere(t *testing.T) {
	s := NewCacheStore()
	const users = 50

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			name := fmt.Sprintf("file-%d.bin", id)
			sess := NewSession(id, id*10, int(id), fmt.Sprintf("ref-%d", id), name, id, KindDocument)
			s.Put(sess)
			got, ok := s.Get(id)
			if assert.True(t, ok) {
				assert.Equal(t, name, got.OriginalName)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, users, s.Count())
}
