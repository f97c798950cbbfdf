package rename

import "context"

// Outgoing describes the renamed media to upload. Exactly one of FileRef
// (relay: re-send the remote reference) or LocalPath (reupload: a freshly
// downloaded and renamed local file) is set.
type Outgoing struct {
	ChatID    int64
	FileRef   string
	LocalPath string
	Name      string
	Caption   string
	ThumbRef  string
	Streaming bool
}

// Platform is the chat transport consumed by the pipeline. Implementations
// must swallow "content unchanged" rejections in EditPrompt; all other
// errors propagate.
type Platform interface {
	EditPrompt(ctx context.Context, chatID int64, messageID int, text string) error
	Download(ctx context.Context, mediaRef, destPath string) error
	SendDocument(ctx context.Context, out Outgoing) error
	SendVideo(ctx context.Context, out Outgoing) error
}

// ThumbSource resolves the user's stored thumbnail reference. An empty
// string with nil error means no thumbnail is set.
type ThumbSource interface {
	Resolve(ctx context.Context, userID int64) (string, error)
}
