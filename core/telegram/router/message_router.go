package router

import (
	"time"

	tg "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow is a per-user conversation that claims text input while active.
// Media updates always reach the flow: a fresh document or video starts
// (or restarts) the conversation for that user.
type Flow interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
	HandleMedia(c tele.Context) error
}

// MessageOptions controls fallback behaviour for message routing.
type MessageOptions struct {
	UnknownText tele.HandlerFunc
	// Photo handles incoming photos outside the flow (e.g. thumbnail capture).
	Photo tele.HandlerFunc
}

// MessageRoutes builds handlers for text, document, video and photo updates.
// Text is claimed by the active flow first, then matched against registered
// commands, then falls through to the registry text fallback.
func MessageRoutes(flow Flow, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if flow != nil && flow.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow_text", start, "", "", func() error {
				return flow.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if flow != nil {
				return handleWithSummary(c, name, start, "", "", func() error {
					return flow.HandleMedia(c)
				})
			}
			logHandlerSummary(c, name, start, "skip", "ok", nil)
			return nil
		}
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if opts.Photo != nil {
			return handleWithSummary(c, "photo", start, "", "", func() error {
				return opts.Photo(c)
			})
		}
		logHandlerSummary(c, "photo", start, "skip", "ok", nil)
		return nil
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnDocument, Handler: wrap(mediaHandler("document"))},
		{Endpoint: tele.OnVideo, Handler: wrap(mediaHandler("video"))},
		{Endpoint: tele.OnPhoto, Handler: wrap(photoHandler)},
	}
}
