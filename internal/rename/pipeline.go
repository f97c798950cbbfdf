package rename

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/logger"
	"github.com/google/uuid"
	"log/slog"
)

// Milestone is one step of the synthetic progress sequence shown while the
// delivery runs. The sequence is cosmetic and configurable.
type Milestone struct {
	Percent int
	Label   string
}

// Delivery strategies.
const (
	// StrategyRelay re-sends the remote file reference under the new name.
	StrategyRelay = "relay"
	// StrategyReupload downloads the file, renames it locally, and uploads it.
	StrategyReupload = "reupload"
)

// PipelineOptions configure a Pipeline.
type PipelineOptions struct {
	Store    Store
	Platform Platform
	Thumbs   ThumbSource

	Strategy   string
	Milestones []Milestone
	// Pause waits between progress edits; injected so tests run instantly.
	Pause func(ctx context.Context)
	// ScratchRoot hosts per-delivery temporary directories (reupload only).
	ScratchRoot string
}

// Pipeline performs the delivery phase of a rename session: progress
// animation, media preparation per strategy, upload, and unconditional
// cleanup of scratch storage and the session itself.
type Pipeline struct {
	store       Store
	platform    Platform
	thumbs      ThumbSource
	strategy    string
	milestones  []Milestone
	pause       func(ctx context.Context)
	scratchRoot string
}

// NewPipeline builds a pipeline, filling defaults for zeroed options.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Strategy == "" {
		opts.Strategy = StrategyRelay
	}
	if len(opts.Milestones) == 0 {
		opts.Milestones = []Milestone{{Percent: 0}, {Percent: 40}, {Percent: 65}, {Percent: 100}}
	}
	if opts.Pause == nil {
		opts.Pause = func(ctx context.Context) {
			select {
			case <-ctx.Done():
			case <-time.After(600 * time.Millisecond):
			}
		}
	}
	if opts.ScratchRoot == "" {
		opts.ScratchRoot = os.TempDir()
	}
	return &Pipeline{
		store:       opts.Store,
		platform:    opts.Platform,
		thumbs:      opts.Thumbs,
		strategy:    opts.Strategy,
		milestones:  opts.Milestones,
		pause:       opts.Pause,
		scratchRoot: opts.ScratchRoot,
	}
}

// Run delivers the session's media under its candidate name. Whatever
// happens, scratch storage and the session are released before returning.
// A session replaced mid-flight is detected via its token and abandoned
// without uploading anything.
func (p *Pipeline) Run(ctx context.Context, sess Session) error {
	start := time.Now()
	var scratch string
	defer func() {
		if scratch != "" {
			if err := os.RemoveAll(scratch); err != nil {
				logger.LogEvent(ctx, logger.Delivery, slog.LevelWarn, "delivery.scratch.cleanup_failed",
					slog.Int64("user_id", sess.UserID),
					slog.String("err", err.Error()),
				)
			}
		}
		p.finishSession(ctx, sess)
	}()

	thumbRef := p.resolveThumb(ctx, sess.UserID)

	p.animateProgress(ctx, sess)

	// The progress sequence suspends between edits; re-check ownership
	// before doing real work.
	if cur, ok := p.store.Get(sess.UserID); !ok || cur.Token != sess.Token {
		logger.LogEvent(ctx, logger.Delivery, slog.LevelInfo, "delivery.aborted.stale",
			slog.Int64("user_id", sess.UserID),
		)
		return nil
	}

	out := Outgoing{
		ChatID:    sess.ChatID,
		Name:      sess.CandidateName,
		Caption:   "✅ Renamed File: " + sess.CandidateName,
		ThumbRef:  thumbRef,
		Streaming: sess.Kind == KindVideo,
	}

	switch p.strategy {
	case StrategyReupload:
		scratch = filepath.Join(p.scratchRoot, "rename-"+uuid.NewString())
		if err := os.MkdirAll(scratch, 0o755); err != nil {
			return &DeliveryError{Stage: "scratch", Cause: err}
		}
		local := filepath.Join(scratch, sess.CandidateName)
		if err := p.platform.Download(ctx, sess.MediaRef, local); err != nil {
			return &DeliveryError{Stage: "download", Cause: err}
		}
		out.LocalPath = local
	default:
		out.FileRef = sess.MediaRef
	}

	var err error
	if sess.Kind == KindVideo {
		err = p.platform.SendVideo(ctx, out)
	} else {
		err = p.platform.SendDocument(ctx, out)
	}
	if err != nil {
		logger.LogEvent(ctx, logger.Delivery, slog.LevelError, "delivery.failed",
			slog.Int64("user_id", sess.UserID),
			slog.String("new_name", logger.SanitizeLimit(sess.CandidateName, 128)),
			slog.String("strategy", p.strategy),
			slog.String("err", err.Error()),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		return &DeliveryError{Stage: "upload", Cause: err}
	}

	logger.LogEvent(ctx, logger.Delivery, slog.LevelInfo, "delivery.completed",
		slog.Int64("user_id", sess.UserID),
		slog.String("new_name", logger.SanitizeLimit(sess.CandidateName, 128)),
		slog.String("kind", string(sess.Kind)),
		slog.String("strategy", p.strategy),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}

// animateProgress walks the milestone sequence, editing the prompt in place.
// Edit failures are cosmetic and never fail the pipeline; the platform
// adapter already swallows "content unchanged" rejections.
func (p *Pipeline) animateProgress(ctx context.Context, sess Session) {
	for i, m := range p.milestones {
		if ctx.Err() != nil {
			return
		}
		if i > 0 {
			p.pause(ctx)
		}
		text := m.Label
		if text == "" {
			text = fmt.Sprintf("⏳ Processing... %d%%", m.Percent)
		}
		if err := p.platform.EditPrompt(ctx, sess.ChatID, sess.PromptMessageID, text); err != nil {
			logger.LogEvent(ctx, logger.Delivery, slog.LevelDebug, "delivery.progress.edit_failed",
				slog.Int64("user_id", sess.UserID),
				slog.Int("milestone", m.Percent),
				slog.String("err", err.Error()),
			)
		}
	}
}

func (p *Pipeline) resolveThumb(ctx context.Context, userID int64) string {
	if p.thumbs == nil {
		return ""
	}
	ref, err := p.thumbs.Resolve(ctx, userID)
	if err != nil {
		logger.LogEvent(ctx, logger.Delivery, slog.LevelWarn, "delivery.thumb.resolve_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return ""
	}
	return ref
}

// finishSession drops the session guarded by its token, so a newer session
// created while this delivery ran stays untouched.
func (p *Pipeline) finishSession(ctx context.Context, sess Session) {
	cur, ok := p.store.Get(sess.UserID)
	if !ok {
		return
	}
	if cur.Token != sess.Token {
		return
	}
	p.store.Delete(sess.UserID)
}
