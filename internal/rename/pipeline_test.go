package rename

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	mu        sync.Mutex
	edits     []string
	editErr   error
	uploads   []Outgoing
	videos    int
	uploadErr error
	downloads []string
}

func (f *fakePlatform) EditPrompt(ctx context.Context, chatID int64, messageID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, text)
	return f.editErr
}

func (f *fakePlatform) Download(ctx context.Context, mediaRef, destPath string) error {
	f.mu.Lock()
	f.downloads = append(f.downloads, destPath)
	f.mu.Unlock()
	return os.WriteFile(destPath, []byte("media"), 0o644)
}

func (f *fakePlatform) SendDocument(ctx context.Context, out Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, out)
	return nil
}

func (f *fakePlatform) SendVideo(ctx context.Context, out Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.videos++
	f.uploads = append(f.uploads, out)
	return nil
}

func (f *fakePlatform) uploaded() []Outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Outgoing(nil), f.uploads...)
}

type fakeThumbs struct {
	ref string
	err error
}

func (f fakeThumbs) Resolve(ctx context.Context, userID int64) (string, error) {
	return f.ref, f.err
}

func noPause(ctx context.Context) {}

func deliveringSession(store Store, userID int64, name, candidate string, kind Kind) Session {
	sess := NewSession(userID, userID*10, 100, "ref-"+name, name, 2048, kind)
	sess.CandidateName = candidate
	sess.State = StateDelivering
	store.Put(sess)
	return sess
}

func TestPipelineDeliversDocument(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{
		Store:    store,
		Platform: platform,
		Thumbs:   fakeThumbs{ref: "thumb-1"},
		Pause:    noPause,
	})

	sess := deliveringSession(store, 1, "report.pdf", "final.pdf", KindDocument)
	require.NoError(t, p.Run(context.Background(), sess))

	uploads := platform.uploaded()
	require.Len(t, uploads, 1)
	assert.Equal(t, "final.pdf", uploads[0].Name)
	assert.Equal(t, "✅ Renamed File: final.pdf", uploads[0].Caption)
	assert.Equal(t, "thumb-1", uploads[0].ThumbRef)
	assert.Equal(t, "ref-report.pdf", uploads[0].FileRef)
	assert.False(t, uploads[0].Streaming)

	// Full progress sequence ran: 0, 40, 65, 100.
	assert.Len(t, platform.edits, 4)

	_, ok := store.Get(1)
	assert.False(t, ok, "session must be cleared after delivery")
}

func TestPipelineVideoRequestsStreaming(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})

	sess := deliveringSession(store, 2, "movie.mkv", "myclip.mkv", KindVideo)
	require.NoError(t, p.Run(context.Background(), sess))

	require.Equal(t, 1, platform.videos)
	uploads := platform.uploaded()
	assert.True(t, uploads[0].Streaming)
	assert.Empty(t, uploads[0].ThumbRef)
}

func TestPipelineClearsSessionOnFailure(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{uploadErr: errors.New("upload exploded")}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})

	sess := deliveringSession(store, 3, "a.txt", "b.txt", KindDocument)
	err := p.Run(context.Background(), sess)

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "upload", de.Stage)
	assert.ErrorContains(t, err, "upload exploded")

	_, ok := store.Get(3)
	assert.False(t, ok, "session must be cleared even on failure")
}

func TestPipelineEditFailuresAreCosmetic(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{editErr: errors.New("message is not modified")}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})

	sess := deliveringSession(store, 4, "a.txt", "b.txt", KindDocument)
	require.NoError(t, p.Run(context.Background(), sess))
	assert.Len(t, platform.uploaded(), 1)
}

func TestPipelineAbortsWhenSessionReplaced(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})

	stale := deliveringSession(store, 5, "old.txt", "old2.txt", KindDocument)
	// The user sent a new file while delivery was pending.
	replacement := NewSession(5, 50, 101, "ref-new", "new.txt", 1, KindDocument)
	store.Put(replacement)

	require.NoError(t, p.Run(context.Background(), stale))

	assert.Empty(t, platform.uploaded(), "stale delivery must not upload")
	got, ok := store.Get(5)
	require.True(t, ok, "replacement session must survive")
	assert.Equal(t, replacement.Token, got.Token)
}

func TestPipelineReuploadUsesAndCleansScratch(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{}
	scratchRoot := t.TempDir()
	p := NewPipeline(PipelineOptions{
		Store:       store,
		Platform:    platform,
		Pause:       noPause,
		Strategy:    StrategyReupload,
		ScratchRoot: scratchRoot,
	})

	sess := deliveringSession(store, 6, "data.bin", "renamed.bin", KindDocument)
	require.NoError(t, p.Run(context.Background(), sess))

	require.Len(t, platform.downloads, 1)
	assert.Equal(t, "renamed.bin", filepath.Base(platform.downloads[0]))

	uploads := platform.uploaded()
	require.Len(t, uploads, 1)
	assert.Equal(t, platform.downloads[0], uploads[0].LocalPath)
	assert.Empty(t, uploads[0].FileRef)

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory must be removed after delivery")
}

func TestPipelineThumbResolveFailureIsNonFatal(t *testing.T) {
	store := NewCacheStore()
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{
		Store:    store,
		Platform: platform,
		Thumbs:   fakeThumbs{err: errors.New("store down")},
		Pause:    noPause,
	})

	sess := deliveringSession(store, 7, "a.txt", "b.txt", KindDocument)
	require.NoError(t, p.Run(context.Background(), sess))

	uploads := platform.uploaded()
	require.Len(t, uploads, 1)
	assert.Empty(t, uploads[0].ThumbRef)
}

func TestFullFlowEndToEnd(t *testing.T) {
	store := NewCacheStore()
	m := NewMachine(store)
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "report.pdf", KindDocument))

	_, err := m.RequestName(ctx, 1)
	require.NoError(t, err)

	sess, err := m.SetName(ctx, 1, "final")
	require.NoError(t, err)
	assert.Equal(t, "final.pdf", sess.CandidateName)

	sess, err = m.BeginDelivery(ctx, 1, KindDocument)
	require.NoError(t, err)

	require.NoError(t, p.Run(ctx, sess))

	uploads := platform.uploaded()
	require.Len(t, uploads, 1)
	assert.Equal(t, "final.pdf", uploads[0].Name)
	assert.False(t, m.InProgress(1))
}

func TestConcurrentUsersCompleteIndependently(t *testing.T) {
	store := NewCacheStore()
	m := NewMachine(store)
	platform := &fakePlatform{}
	p := NewPipeline(PipelineOptions{Store: store, Platform: platform, Pause: noPause})

	const users = 10
	var wg sync.WaitGroup
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			ctx := context.Background()
			original := fmt.Sprintf("file-%d.dat", id)
			m.Receive(ctx, newTestSession(id, original, KindDocument))

			sess, err := m.SetName(ctx, id, fmt.Sprintf("renamed-%d", id))
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, fmt.Sprintf("renamed-%d.dat", id), sess.CandidateName)

			sess, err = m.BeginDelivery(ctx, id, KindDocument)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, p.Run(ctx, sess))
		}(int64(i))
	}
	wg.Wait()

	uploads := platform.uploaded()
	require.Len(t, uploads, users)
	seen := make(map[string]bool, users)
	for _, u := range uploads {
		seen[u.Name] = true
	}
	for i := 1; i <= users; i++ {
		assert.True(t, seen[fmt.Sprintf("renamed-%d.dat", i)])
	}
	assert.Equal(t, 0, m.Active())
}
