package bot

import (
	"context"
	"time"

	coreconfig "github.com/chathandevog-hash/Malti-Function-Bot/core/config"
	tg "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/commands"
	tghelpers "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/helpers"
	"github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/router"
	tgsender "github.com/chathandevog-hash/Malti-Function-Bot/core/telegram/sender"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/rename"
	"github.com/chathandevog-hash/Malti-Function-Bot/internal/thumbs"
	"github.com/jmoiron/sqlx"

	tele "gopkg.in/telebot.v4"
)

// App wires the rename flow, thumbnail store and command surface into a
// runnable Telegram bot.
type App struct {
	cfg      *coreconfig.Config
	machine  *rename.Machine
	pipeline *rename.Pipeline
	thumbs   thumbs.Store
	registry *tg.Registry
	platform *telegramPlatform

	dispatcher *tgsender.Dispatcher
}

// New assembles the application from loaded configuration and an open
// database handle.
func New(cfg *coreconfig.Config, db *sqlx.DB) *App {
	thumbStore := thumbs.NewCached(thumbs.NewPostgresStore(db), 0)

	store := rename.NewCacheStore()
	platform := newTelegramPlatform(nil)

	pauseDur := time.Duration(cfg.Delivery.PauseMS) * time.Millisecond
	pipeline := rename.NewPipeline(rename.PipelineOptions{
		Store:      store,
		Platform:   platform,
		Thumbs:     thumbs.Resolver{Store: thumbStore},
		Strategy:   cfg.Delivery.Strategy,
		Milestones: buildMilestones(cfg.Delivery.Milestones),
		Pause: func(ctx context.Context) {
			select {
			case <-ctx.Done():
			case <-time.After(pauseDur):
			}
		},
		ScratchRoot: cfg.Delivery.ScratchDir,
	})

	a := &App{
		cfg:      cfg,
		machine:  rename.NewMachine(store),
		pipeline: pipeline,
		thumbs:   thumbStore,
		platform: platform,
	}
	a.registry = a.buildRegistry()
	return a
}

// buildMilestones maps configured progress steps onto display labels.
func buildMilestones(in []coreconfig.Milestone) []rename.Milestone {
	out := make([]rename.Milestone, 0, len(in))
	for _, m := range in {
		label := m.Label
		if label == "" {
			label = progressLabel(m.Percent)
		}
		out = append(out, rename.Milestone{Percent: m.Percent, Label: label})
	}
	return out
}

func (a *App) buildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.cmdStart,
		Description: "Start bot",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.cmdHelp,
		Description: "Help menu",
	})
	reg.RegisterCommand("/delthumb", commands.Command{
		Handler:     a.cmdDeleteThumb,
		Description: "Delete thumbnail",
		Aliases:     []string{"deletetub"},
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     a.cmdStatus,
		Description: "Bot status",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(actionCancel, a.cbCancel)
	_ = reg.RegisterCallback(actionRename, a.cbRename)
	_ = reg.RegisterCallback(actionFormatDoc, a.cbFormatDocument)
	_ = reg.RegisterCallback(actionFormatVid, a.cbFormatVideo)

	// Plain text with no session in flight is a nudge, not silence.
	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, rename.ErrNoSession.Notice)
	})
	reg.SetCallbackNotFound(func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: unknownActionText})
	})

	return reg
}

// CoreConfig exposes the embedded configuration to the runner.
func (a *App) CoreConfig() *coreconfig.Config { return a.cfg }

// TelegramRunOptions builds the bot runtime: middleware chain, message and
// callback routing, and lifecycle hooks.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.MessageRoutes(a, a.registry, router.MessageOptions{
		Photo: a.handlePhoto,
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.platform.bot = rt.Bot
			a.dispatcher = rt.Dispatcher
			return nil
		},
	}, nil
}

// InProgress reports whether the user has an active rename session.
// Part of the router flow contract.
func (a *App) InProgress(userID int64) bool {
	return a.machine.InProgress(userID)
}

var _ router.Flow = (*App)(nil)
