package rename

import (
	"github.com/google/uuid"
)

// Kind identifies how the media is (re)delivered.
type Kind string

const (
	// KindDocument delivers the file as a plain document.
	KindDocument Kind = "document"
	// KindVideo delivers the file as a streamable video.
	KindVideo Kind = "video"
)

// State is the position of a session in the rename flow.
type State string

const (
	// StateAwaitingName means media was received and the bot waits for a new file name.
	StateAwaitingName State = "awaiting_name"
	// StateAwaitingFormat means a candidate name is set and the bot waits for a format choice.
	StateAwaitingFormat State = "awaiting_format"
	// StateDelivering means the delivery pipeline owns the session.
	StateDelivering State = "delivering"
)

// Session tracks one in-flight rename request. At most one live session
// exists per user; a new media submission silently replaces the old one.
//
// Invariant: CandidateName is non-empty exactly when State is
// StateAwaitingFormat or StateDelivering.
type Session struct {
	UserID          int64
	ChatID          int64
	PromptMessageID int

	// MediaRef is the platform file handle, never the file bytes.
	MediaRef     string
	OriginalName string
	Size         int64
	Kind         Kind

	CandidateName string
	State         State

	// Token identifies this particular session instance. In-flight work
	// re-reads the store and compares tokens before mutating, so a
	// replaced or removed session is detected and abandoned quietly.
	Token string
}

// NewSession builds a fresh session in StateAwaitingName with a unique token.
func NewSession(userID, chatID int64, promptMessageID int, mediaRef, originalName string, size int64, kind Kind) Session {
	return Session{
		UserID:          userID,
		ChatID:          chatID,
		PromptMessageID: promptMessageID,
		MediaRef:        mediaRef,
		OriginalName:    originalName,
		Size:            size,
		Kind:            kind,
		State:           StateAwaitingName,
		Token:           uuid.NewString(),
	}
}
