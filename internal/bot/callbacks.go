package bot

import (
	"errors"
	"fmt"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/format"
	tghelpers "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/helpers"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/rename"

	tele "gopkg.in/telebot.v4"
)

// cbCancel drops the session and edits the prompt to an acknowledgment.
// Cancelling with no session is a harmless notice, never an error.
func (a *App) cbCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if _, ok := a.machine.Cancel(ctx, c.Sender().ID); !ok {
		return c.Respond(&tele.CallbackResponse{Text: nothingToCancel})
	}
	_ = c.Respond()
	if err := c.Edit(cancelledText); err != nil && !isNotModified(err) {
		return err
	}
	return nil
}

// cbRename nudges the user to type a new name. The session state does not
// change; only the prompt text does.
func (a *App) cbRename(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.machine.RequestName(ctx, c.Sender().ID)
	if err != nil {
		return a.respondUserError(c, err)
	}
	_ = c.Respond()
	text := fmt.Sprintf("✏️ Send the new file name:\n\nCurrent: `%s`",
		format.EscapeMarkdown(sess.OriginalName))
	if err := c.Edit(text, tele.ModeMarkdown); err != nil && !isNotModified(err) {
		return err
	}
	return nil
}

func (a *App) cbFormatDocument(c tele.Context) error {
	return a.deliver(c, rename.KindDocument)
}

func (a *App) cbFormatVideo(c tele.Context) error {
	return a.deliver(c, rename.KindVideo)
}

// deliver moves the session into delivery and runs the pipeline. The
// pipeline clears the session whatever happens; a failure is surfaced to
// the user with its cause.
func (a *App) deliver(c tele.Context, kind rename.Kind) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := a.machine.BeginDelivery(ctx, userID, kind)
	if err != nil {
		return a.respondUserError(c, err)
	}
	_ = c.Respond()

	// Animate progress on the message whose button was pressed.
	if msg := c.Message(); msg != nil && msg.ID != sess.PromptMessageID {
		if err := a.machine.AnchorPrompt(ctx, userID, sess.Token, msg.ID); err == nil {
			sess.PromptMessageID = msg.ID
		}
	}

	if err := a.pipeline.Run(ctx, sess); err != nil {
		cause := err
		var de *rename.DeliveryError
		if errors.As(err, &de) && de.Cause != nil {
			cause = de.Cause
		}
		failText := fmt.Sprintf("❌ Rename failed: %v", cause)
		if editErr := a.platform.EditPrompt(ctx, sess.ChatID, sess.PromptMessageID, failText); editErr != nil {
			_ = c.Send(failText)
		}
		return err
	}
	return nil
}

// respondUserError answers a callback with a transient alert for expected
// user mistakes and swallows stale-session races.
func (a *App) respondUserError(c tele.Context, err error) error {
	var ue *rename.UserError
	if errors.As(err, &ue) {
		return c.Respond(&tele.CallbackResponse{Text: ue.Notice, ShowAlert: true})
	}
	if errors.Is(err, rename.ErrStaleSession) {
		return nil
	}
	return err
}
