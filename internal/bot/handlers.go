package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/format"
	tghelpers "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/helpers"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/keyboard"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/rename"

	tele "gopkg.in/telebot.v4"
)

// Button action identifiers, the wire contract between prompts and handlers.
const (
	actionCancel    = "cancel"
	actionRename    = "rename"
	actionFormatDoc = "fmt_doc"
	actionFormatVid = "fmt_vid"
)

// HandleMedia opens (or silently replaces) a rename session for an incoming
// document or video and shows the summary prompt. Part of the router flow
// contract.
func (a *App) HandleMedia(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	var (
		ref  string
		name string
		size int64
		kind rename.Kind
	)
	switch {
	case msg.Document != nil:
		ref = msg.Document.FileID
		name = msg.Document.FileName
		if name == "" {
			name = "file"
		}
		size = msg.Document.FileSize
		kind = rename.KindDocument
	case msg.Video != nil:
		ref = msg.Video.FileID
		name = msg.Video.FileName
		if name == "" {
			name = "video.mp4"
		}
		size = msg.Video.FileSize
		kind = rename.KindVideo
	default:
		return nil
	}

	ctx := tghelpers.BuildContext(c)

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✏️ Rename", Unique: actionRename},
		{Text: "❌ Cancel", Unique: actionCancel},
	})
	prompt := fmt.Sprintf("📄 Current: `%s`\n💾 Size: %s\n\nWhat would you like to do?",
		format.EscapeMarkdown(name), format.HumanSize(size))

	sent, err := c.Bot().Reply(msg, prompt, markup, tele.ModeMarkdown)
	if err != nil {
		return err
	}

	sess := rename.NewSession(c.Sender().ID, c.Chat().ID, sent.ID, ref, name, size, kind)
	a.machine.Receive(ctx, sess)
	return nil
}

// HandleText treats a plain text message from a user with an active session
// as the candidate file name. Part of the router flow contract.
func (a *App) HandleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		// Slash input is never a file name. Aliases only reach the bot as
		// plain text, so resolve them here; unknown slashes stay silent.
		token := strings.Fields(text)[0]
		if at := strings.Index(token, "@"); at > 0 {
			token = token[:at]
		}
		if _, cmd, ok := a.registry.LookupCommand(token); ok && cmd.Handler != nil {
			if cmd.AdminOnly && c.Sender().ID != a.cfg.Telegram.AdminID {
				return nil
			}
			return cmd.Handler(c)
		}
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := a.machine.SetName(ctx, userID, text)
	if err != nil {
		return a.replyUserError(c, err)
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "📄 Document", Unique: actionFormatDoc},
		{Text: "🎥 Video", Unique: actionFormatVid},
	})
	prompt := fmt.Sprintf("✅ Name Set: `%s`\n\nSelect format:",
		format.EscapeMarkdown(sess.CandidateName))

	sent, err := c.Bot().Reply(c.Message(), prompt, markup, tele.ModeMarkdown)
	if err != nil {
		return err
	}

	// Progress edits must land on the freshly sent format prompt.
	_ = a.machine.AnchorPrompt(ctx, userID, sess.Token, sent.ID)
	return nil
}

// handlePhoto stores the photo as the user's delivery thumbnail.
func (a *App) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if err := a.thumbs.Set(ctx, c.Sender().ID, msg.Photo.FileID); err != nil {
		return err
	}
	return tghelpers.SendText(c, thumbSavedText)
}

// replyUserError surfaces an expected user mistake as a transient reply and
// swallows stale-session races. Anything else propagates as a real failure.
func (a *App) replyUserError(c tele.Context, err error) error {
	var ue *rename.UserError
	if errors.As(err, &ue) {
		return tghelpers.SendText(c, ue.Notice)
	}
	if errors.Is(err, rename.ErrStaleSession) {
		return nil
	}
	return err
}
