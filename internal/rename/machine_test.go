package rename

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(userID int64, name string, kind Kind) Session {
	return NewSession(userID, userID*10, 100, "ref-"+name, name, 1024, kind)
}

func TestReceiveReplacesExistingSession(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	first := m.Receive(ctx, newTestSession(1, "a.txt", KindDocument))
	second := m.Receive(ctx, newTestSession(1, "b.mp4", KindVideo))

	got, ok := m.Store().Get(1)
	require.True(t, ok)
	assert.Equal(t, second.Token, got.Token)
	assert.NotEqual(t, first.Token, got.Token)
	assert.Equal(t, 1, m.Active())
}

func TestSetNameAdvancesToAwaitingFormat(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "movie.mkv", KindVideo))
	sess, err := m.SetName(ctx, 1, "myclip")
	require.NoError(t, err)

	assert.Equal(t, "myclip.mkv", sess.CandidateName)
	assert.Equal(t, StateAwaitingFormat, sess.State)
}

func TestSetNameWithoutSession(t *testing.T) {
	m := NewMachine(NewCacheStore())

	_, err := m.SetName(context.Background(), 1, "anything")
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "NO_SESSION", ue.Code())
}

func TestFormatBeforeNameIsRejected(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "report.pdf", KindDocument))

	_, err := m.BeginDelivery(ctx, 1, KindDocument)
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "NO_NAME", ue.Code())

	// Store untouched: still awaiting a name, no candidate set.
	got, ok := m.Store().Get(1)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingName, got.State)
	assert.Empty(t, got.CandidateName)
}

func TestCancelIsIdempotent(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "a.txt", KindDocument))

	_, removed := m.Cancel(ctx, 1)
	assert.True(t, removed)

	_, removed = m.Cancel(ctx, 1)
	assert.False(t, removed)
	assert.Equal(t, 0, m.Active())
}

func TestCandidateNameInvariant(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "movie.mkv", KindVideo))
	got, _ := m.Store().Get(1)
	assert.Empty(t, got.CandidateName, "awaiting_name must have no candidate")

	_, err := m.SetName(ctx, 1, "clip")
	require.NoError(t, err)
	got, _ = m.Store().Get(1)
	assert.NotEmpty(t, got.CandidateName)
	assert.Equal(t, StateAwaitingFormat, got.State)

	sess, err := m.BeginDelivery(ctx, 1, KindVideo)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.CandidateName)
	assert.Equal(t, StateDelivering, sess.State)
}

func TestTextDuringDeliveryRejected(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "movie.mkv", KindVideo))
	_, err := m.SetName(ctx, 1, "clip")
	require.NoError(t, err)
	_, err = m.BeginDelivery(ctx, 1, KindVideo)
	require.NoError(t, err)

	_, err = m.SetName(ctx, 1, "another")
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "DELIVERY_IN_PROGRESS", ue.Code())
}

func TestRequestNameOnlyInAwaitingName(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	m.Receive(ctx, newTestSession(1, "a.txt", KindDocument))
	_, err := m.RequestName(ctx, 1)
	assert.NoError(t, err)

	_, err = m.SetName(ctx, 1, "new")
	require.NoError(t, err)

	_, err = m.RequestName(ctx, 1)
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "OUT_OF_ORDER", ue.Code())
}

func TestAnchorPromptRejectsStaleToken(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	sess := m.Receive(ctx, newTestSession(1, "a.txt", KindDocument))

	err := m.AnchorPrompt(ctx, 1, "not-the-token", 555)
	assert.True(t, errors.Is(err, ErrStaleSession))

	require.NoError(t, m.AnchorPrompt(ctx, 1, sess.Token, 555))
	got, _ := m.Store().Get(1)
	assert.Equal(t, 555, got.PromptMessageID)
}

func TestFinishGuardsToken(t *testing.T) {
	m := NewMachine(NewCacheStore())
	ctx := context.Background()

	old := m.Receive(ctx, newTestSession(1, "a.txt", KindDocument))
	replacement := m.Receive(ctx, newTestSession(1, "b.txt", KindDocument))

	// A delivery holding the replaced session must not delete the new one.
	m.Finish(ctx, 1, old.Token)
	got, ok := m.Store().Get(1)
	require.True(t, ok)
	assert.Equal(t, replacement.Token, got.Token)

	m.Finish(ctx, 1, replacement.Token)
	_, ok = m.Store().Get(1)
	assert.False(t, ok)
}
