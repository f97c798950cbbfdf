package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/chathandevog-hash/Malti-Function-Bot/internal/rename"

	tele "gopkg.in/telebot.v4"
)

// telegramPlatform adapts a telebot client to the delivery pipeline ports.
type telegramPlatform struct {
	bot *tele.Bot
}

func newTelegramPlatform(b *tele.Bot) *telegramPlatform {
	return &telegramPlatform{bot: b}
}

// isNotModified matches Telegram's rejection of an edit that changes nothing.
func isNotModified(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, tele.ErrSameMessageContent) {
		return true
	}
	return strings.Contains(err.Error(), "message is not modified")
}

// EditPrompt rewrites the anchored prompt message in place. An unchanged
// content rejection is swallowed; the progress animation must survive it.
func (p *telegramPlatform) EditPrompt(ctx context.Context, chatID int64, messageID int, text string) error {
	msg := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
	_, err := p.bot.Edit(msg, text)
	if isNotModified(err) {
		return nil
	}
	return err
}

// Download fetches the remote media into destPath.
func (p *telegramPlatform) Download(ctx context.Context, mediaRef, destPath string) error {
	return p.bot.Download(&tele.File{FileID: mediaRef}, destPath)
}

func (p *telegramPlatform) thumbnail(ref string) *tele.Photo {
	if ref == "" {
		return nil
	}
	return &tele.Photo{File: tele.File{FileID: ref}}
}

func (p *telegramPlatform) file(out rename.Outgoing) tele.File {
	if out.LocalPath != "" {
		return tele.FromDisk(out.LocalPath)
	}
	return tele.File{FileID: out.FileRef}
}

// SendDocument uploads the renamed media as a plain document.
func (p *telegramPlatform) SendDocument(ctx context.Context, out rename.Outgoing) error {
	doc := &tele.Document{
		File:      p.file(out),
		FileName:  out.Name,
		Caption:   out.Caption,
		Thumbnail: p.thumbnail(out.ThumbRef),
	}
	_, err := p.bot.Send(tele.ChatID(out.ChatID), doc)
	return err
}

// SendVideo uploads the renamed media as a streamable video.
func (p *telegramPlatform) SendVideo(ctx context.Context, out rename.Outgoing) error {
	vid := &tele.Video{
		File:      p.file(out),
		FileName:  out.Name,
		Caption:   out.Caption,
		Thumbnail: p.thumbnail(out.ThumbRef),
		Streaming: out.Streaming,
	}
	_, err := p.bot.Send(tele.ChatID(out.ChatID), vid)
	return err
}
