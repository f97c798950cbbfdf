package bot

import (
	"context"
	"testing"

	coreconfig "github.com/chathandevog-hash/Malti-Function-Bot/core/config"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/router"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/rename"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/thumbs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

// recordingCtx implements the slice of tele.Context the handlers touch and
// records every user-visible side effect. Unused interface methods panic via
// the nil embed, which is fine: a test reaching them is itself a bug.
type recordingCtx struct {
	tele.Context

	user *tele.User
	chat *tele.Chat
	msg  *tele.Message
	cb   *tele.Callback
	text string
	kv   map[string]any

	sent     []string
	edits    []string
	responds []*tele.CallbackResponse
}

func newRecordingCtx(userID int64) *recordingCtx {
	chat := &tele.Chat{ID: userID, Type: tele.ChatPrivate}
	return &recordingCtx{
		user: &tele.User{ID: userID},
		chat: chat,
		msg:  &tele.Message{ID: 100, Chat: chat},
		kv:   map[string]any{},
	}
}

func (r *recordingCtx) Update() tele.Update {
	return tele.Update{ID: 1, Message: r.msg, Callback: r.cb}
}

func (r *recordingCtx) Sender() *tele.User       { return r.user }
func (r *recordingCtx) Chat() *tele.Chat         { return r.chat }
func (r *recordingCtx) Message() *tele.Message   { return r.msg }
func (r *recordingCtx) Callback() *tele.Callback { return r.cb }
func (r *recordingCtx) Text() string             { return r.text }
func (r *recordingCtx) Get(key string) any       { return r.kv[key] }
func (r *recordingCtx) Set(key string, val any)  { r.kv[key] = val }

func (r *recordingCtx) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		r.sent = append(r.sent, s)
	}
	return nil
}

func (r *recordingCtx) Edit(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		r.edits = append(r.edits, s)
	}
	return nil
}

func (r *recordingCtx) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) > 0 {
		r.responds = append(r.responds, resp[0])
	} else {
		r.responds = append(r.responds, &tele.CallbackResponse{})
	}
	return nil
}

type memThumbStore struct {
	data map[int64]string
}

func (s *memThumbStore) Set(_ context.Context, userID int64, fileRef string) error {
	s.data[userID] = fileRef
	return nil
}

func (s *memThumbStore) Get(_ context.Context, userID int64) (string, error) {
	ref, ok := s.data[userID]
	if !ok {
		return "", thumbs.ErrNotFound
	}
	return ref, nil
}

func (s *memThumbStore) Delete(_ context.Context, userID int64) error {
	if _, ok := s.data[userID]; !ok {
		return thumbs.ErrNotFound
	}
	delete(s.data, userID)
	return nil
}

type idlePlatform struct{}

func (idlePlatform) EditPrompt(context.Context, int64, int, string) error { return nil }
func (idlePlatform) Download(context.Context, string, string) error       { return nil }
func (idlePlatform) SendDocument(context.Context, rename.Outgoing) error  { return nil }
func (idlePlatform) SendVideo(context.Context, rename.Outgoing) error     { return nil }

func newTestApp() *App {
	store := rename.NewCacheStore()
	a := &App{
		cfg:     &coreconfig.Config{},
		machine: rename.NewMachine(store),
		thumbs:  &memThumbStore{data: map[int64]string{}},
		pipeline: rename.NewPipeline(rename.PipelineOptions{
			Store:    store,
			Platform: idlePlatform{},
			Pause:    func(context.Context) {},
		}),
		platform: newTelegramPlatform(nil),
	}
	a.registry = a.buildRegistry()
	return a
}

func openSession(t *testing.T, a *App, userID int64) rename.Session {
	t.Helper()
	sess := rename.NewSession(userID, userID, 100, "file-ref", "report.pdf", 2048, rename.KindDocument)
	return a.machine.Receive(context.Background(), sess)
}

func callbackHandler(a *App) tele.HandlerFunc {
	return router.CallbackRoute(a.registry, router.CallbackOptions{}).Handler
}

// A format button pressed before a name is set must produce exactly one
// callback answer, carrying the notice; the press is not a handler failure
// and the session stays where it was.
func TestFormatBeforeNameAnswersExactlyOnce(t *testing.T) {
	a := newTestApp()
	openSession(t, a, 1)

	c := newRecordingCtx(1)
	c.cb = &tele.Callback{Unique: actionFormatDoc}

	require.NoError(t, callbackHandler(a)(c))

	require.Len(t, c.responds, 1)
	assert.Equal(t, rename.ErrNoName.Notice, c.responds[0].Text)
	assert.True(t, c.responds[0].ShowAlert)

	got, ok := a.machine.Store().Get(1)
	require.True(t, ok)
	assert.Equal(t, rename.StateAwaitingName, got.State)
}

func TestCancelWithoutSessionAnswersNotice(t *testing.T) {
	a := newTestApp()

	c := newRecordingCtx(2)
	c.cb = &tele.Callback{Unique: actionCancel}

	require.NoError(t, callbackHandler(a)(c))

	require.Len(t, c.responds, 1)
	assert.Equal(t, nothingToCancel, c.responds[0].Text)
	assert.Empty(t, c.edits)
}

func TestCancelAcksOnceAndEditsPrompt(t *testing.T) {
	a := newTestApp()
	openSession(t, a, 3)

	c := newRecordingCtx(3)
	c.cb = &tele.Callback{Unique: actionCancel}

	require.NoError(t, callbackHandler(a)(c))

	require.Len(t, c.responds, 1)
	assert.Empty(t, c.responds[0].Text)
	require.Len(t, c.edits, 1)
	assert.Equal(t, cancelledText, c.edits[0])
	assert.False(t, a.machine.InProgress(3))
}

// Plain text with no session in flight gets the nudge instead of silence.
func TestTextWithoutSessionSendsNotice(t *testing.T) {
	a := newTestApp()
	routes := router.MessageRoutes(a, a.registry, router.MessageOptions{Photo: a.handlePhoto})

	var onText tele.HandlerFunc
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			onText = r.Handler
		}
	}
	require.NotNil(t, onText)

	c := newRecordingCtx(4)
	c.text = "my-new-name.pdf"

	require.NoError(t, onText(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, rename.ErrNoSession.Notice, c.sent[0])
}

func TestUnknownCallbackAnswersWithNotice(t *testing.T) {
	a := newTestApp()

	c := newRecordingCtx(5)
	c.cb = &tele.Callback{Unique: "bogus_action"}

	require.NoError(t, callbackHandler(a)(c))

	require.Len(t, c.responds, 1)
	assert.Equal(t, unknownActionText, c.responds[0].Text)
}

// A slash command typed mid-session still runs, aliases included; the
// session survives and the text is never taken as a file name.
func TestCommandAliasRunsMidSession(t *testing.T) {
	a := newTestApp()
	openSession(t, a, 6)

	c := newRecordingCtx(6)
	c.text = "/deletetub"

	require.NoError(t, a.HandleText(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, thumbMissingText, c.sent[0])

	got, ok := a.machine.Store().Get(6)
	require.True(t, ok)
	assert.Equal(t, rename.StateAwaitingName, got.State)
	assert.Empty(t, got.CandidateName)
}

func TestUnknownSlashMidSessionStaysSilent(t *testing.T) {
	a := newTestApp()
	openSession(t, a, 7)

	c := newRecordingCtx(7)
	c.text = "/definitely-not-a-command"

	require.NoError(t, a.HandleText(c))

	assert.Empty(t, c.sent)
	got, ok := a.machine.Store().Get(7)
	require.True(t, ok)
	assert.Empty(t, got.CandidateName)
}
