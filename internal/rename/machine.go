package rename

import (
	"context"
	"errors"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/logger"
	"log/slog"
)

// ErrStaleSession signals that the session was replaced or removed while a
// transition was in flight. Callers abandon the work quietly; the newer
// session owns the user now.
var ErrStaleSession = errors.New("rename: session replaced or removed")

// Machine validates and applies session transitions. It is strict: any
// event that does not fit the current state is rejected with a *UserError
// and leaves the store untouched.
//
// Every mutating transition re-reads the session and compares the token
// before writing, so two racing events for the same user resolve to
// last-write-wins without corrupting state.
type Machine struct {
	store Store
}

// NewMachine builds a state machine over the given store.
func NewMachine(store Store) *Machine {
	return &Machine{store: store}
}

// Store exposes the underlying session store.
func (m *Machine) Store() Store { return m.store }

// InProgress reports whether the user has an active session.
func (m *Machine) InProgress(userID int64) bool {
	_, ok := m.store.Get(userID)
	return ok
}

// Active reports the number of live sessions.
func (m *Machine) Active() int { return m.store.Count() }

// Receive registers incoming media and opens a session in StateAwaitingName.
// An existing session for the user is silently replaced, not queued.
func (m *Machine) Receive(ctx context.Context, sess Session) Session {
	if prev, ok := m.store.Get(sess.UserID); ok {
		logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.replaced",
			slog.Int64("user_id", sess.UserID),
			slog.String("from_state", string(prev.State)),
			slog.String("file_name", logger.SanitizeLimit(prev.OriginalName, 128)),
		)
	}
	m.store.Put(sess)
	logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.created",
		slog.Int64("user_id", sess.UserID),
		slog.String("file_name", logger.SanitizeLimit(sess.OriginalName, 128)),
		slog.String("kind", string(sess.Kind)),
		slog.Int64("size", sess.Size),
	)
	return sess
}

// RequestName acknowledges the Rename button. It is a UI nudge only: the
// session must be in StateAwaitingName and no data changes.
func (m *Machine) RequestName(ctx context.Context, userID int64) (Session, error) {
	sess, ok := m.store.Get(userID)
	if !ok {
		return Session{}, ErrNoSession
	}
	switch sess.State {
	case StateAwaitingName:
		return sess, nil
	case StateDelivering:
		return Session{}, ErrBusy
	default:
		return Session{}, ErrBadOrder
	}
}

// SetName applies a qualifying text message as the candidate file name and
// advances the session to StateAwaitingFormat.
func (m *Machine) SetName(ctx context.Context, userID int64, text string) (Session, error) {
	sess, ok := m.store.Get(userID)
	if !ok {
		return Session{}, ErrNoSession
	}
	switch sess.State {
	case StateDelivering:
		return Session{}, ErrBusy
	case StateAwaitingFormat:
		return Session{}, ErrBadOrder
	}

	candidate := BuildCandidateName(sess.OriginalName, text)
	if candidate == "" {
		return Session{}, ErrEmptyName
	}

	cur, ok := m.store.Get(userID)
	if !ok || cur.Token != sess.Token || cur.State != sess.State {
		return Session{}, ErrStaleSession
	}
	cur.CandidateName = candidate
	cur.State = StateAwaitingFormat
	m.store.Put(cur)

	logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.named",
		slog.Int64("user_id", userID),
		slog.String("file_name", logger.SanitizeLimit(cur.OriginalName, 128)),
		slog.String("new_name", logger.SanitizeLimit(candidate, 128)),
	)
	return cur, nil
}

// AnchorPrompt re-points the session at a newly sent prompt message, so
// later edits (format prompt, progress animation) land on the right message.
func (m *Machine) AnchorPrompt(ctx context.Context, userID int64, token string, messageID int) error {
	cur, ok := m.store.Get(userID)
	if !ok || cur.Token != token {
		return ErrStaleSession
	}
	cur.PromptMessageID = messageID
	m.store.Put(cur)
	return nil
}

// Cancel removes the session if one exists. Cancelling with no active
// session is a harmless no-op; the second return value reports whether a
// session was actually removed.
func (m *Machine) Cancel(ctx context.Context, userID int64) (Session, bool) {
	sess, ok := m.store.Get(userID)
	if !ok {
		return Session{}, false
	}
	m.store.Delete(userID)
	logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.cancelled",
		slog.Int64("user_id", userID),
		slog.String("from_state", string(sess.State)),
	)
	return sess, true
}

// BeginDelivery moves the session into StateDelivering under the chosen
// output kind. A format action arriving before a name is set is rejected
// without touching the store or the pipeline.
func (m *Machine) BeginDelivery(ctx context.Context, userID int64, kind Kind) (Session, error) {
	sess, ok := m.store.Get(userID)
	if !ok {
		return Session{}, ErrNoSession
	}
	switch sess.State {
	case StateAwaitingName:
		return Session{}, ErrNoName
	case StateDelivering:
		return Session{}, ErrBusy
	}
	if sess.CandidateName == "" {
		return Session{}, ErrNoName
	}

	cur, ok := m.store.Get(userID)
	if !ok || cur.Token != sess.Token || cur.State != sess.State {
		return Session{}, ErrStaleSession
	}
	cur.State = StateDelivering
	cur.Kind = kind
	m.store.Put(cur)

	logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.delivering",
		slog.Int64("user_id", userID),
		slog.String("new_name", logger.SanitizeLimit(cur.CandidateName, 128)),
		slog.String("kind", string(kind)),
	)
	return cur, nil
}

// Finish removes the session after delivery, success or failure. The token
// guard keeps a delivery that lost a race from deleting a newer session.
func (m *Machine) Finish(ctx context.Context, userID int64, token string) {
	cur, ok := m.store.Get(userID)
	if !ok {
		return
	}
	if token != "" && cur.Token != token {
		logger.LogEvent(ctx, logger.Sessions, slog.LevelDebug, "session.finish.stale",
			slog.Int64("user_id", userID),
		)
		return
	}
	m.store.Delete(userID)
	logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "session.finished",
		slog.Int64("user_id", userID),
	)
}
