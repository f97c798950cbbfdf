package bot

import (
	"errors"
	"fmt"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/buildinfo"
	tghelpers "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/helpers"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/thumbs"

	tele "gopkg.in/telebot.v4"
)

func (a *App) cmdStart(c tele.Context) error {
	return tghelpers.SendText(c, startText)
}

func (a *App) cmdHelp(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

// cmdDeleteThumb removes the stored thumbnail; a missing record gets an
// informational notice, not an error.
func (a *App) cmdDeleteThumb(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	err := a.thumbs.Delete(ctx, c.Sender().ID)
	if errors.Is(err, thumbs.ErrNotFound) {
		return tghelpers.SendText(c, thumbMissingText)
	}
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, thumbDeletedText)
}

// cmdStatus reports runtime counters. Admin-only; wired through the
// admin middleware by the command router.
func (a *App) cmdStatus(c tele.Context) error {
	senderErrs := uint64(0)
	if a.dispatcher != nil {
		senderErrs = a.dispatcher.ErrorCount()
	}
	text := fmt.Sprintf("Active sessions: %d\nSender errors: %d\nVersion: %s (%s)",
		a.machine.Active(), senderErrs, buildinfo.Version, buildinfo.Commit)
	return tghelpers.SendText(c, text)
}
