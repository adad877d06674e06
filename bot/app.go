// Package bot assembles the stores, the FSM, and the handlers into a
// runnable application.
package bot

import (
	"context"
	"fmt"

	"channelbot/bot/handlers"
	"channelbot/bot/storage"
	"channelbot/bot/ui"
	"channelbot/core/config"
	"channelbot/core/logger"
	coretele "channelbot/core/telegram"
	"channelbot/core/telegram/router"
	"channelbot/core/telegram/sender"
	"channelbot/core/telegram/state"
	"log/slog"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
)

// App owns the wired application parts.
type App struct {
	cfg      *config.Config
	settings *storage.SettingsStore
	users    *storage.UserStore
	fsm      state.Manager
	registry *coretele.Registry
	handlers *handlers.Handlers
}

// New wires the application. The configured owner id, when set, is promoted
// to admin so a fresh deployment has a way into the panel.
func New(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*App, error) {
	app := &App{
		cfg:      cfg,
		settings: storage.NewSettingsStore(db),
		users:    storage.NewUserStore(db),
		fsm:      state.NewMemoryManager(),
		registry: coretele.NewRegistry(),
	}
	app.handlers = handlers.New(app.settings, app.users, app.fsm)

	if err := app.handlers.Register(app.registry); err != nil {
		return nil, fmt.Errorf("bot: register handlers: %w", err)
	}
	// Stale inline keyboards from before a restart answer in the UI language.
	app.registry.SetCallbackNotFound(func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	})

	if ownerID := cfg.Telegram.OwnerID; ownerID != 0 {
		if err := app.users.Promote(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("bot: promote owner: %w", err)
		}
		logger.Info(ctx, "app", "owner.promoted", slog.Int64("target_id", ownerID))
	}

	return app, nil
}

// RunOptions builds the telegram run configuration: middleware chain,
// routed endpoints, and the registry for command menu setup.
func (a *App) RunOptions() coretele.RunOptions {
	msgOpts := router.MessageOptions{
		Registry:   a.registry,
		FSM:        a.fsm,
		CancelText: ui.BtnCancel,
		OnCancel:   a.handlers.Cancel,
		Admin:      a.handlers,
		OnReject:   a.handlers.Denied,
	}

	return coretele.RunOptions{
		Config:   a.cfg,
		Registry: a.registry,
		// One worker keeps multi-message wizard replies in send order.
		Sender:      sender.Options{Workers: 1},
		Middlewares: coretele.DefaultMiddlewares(a.cfg),
		Routes: []coretele.Route{
			{Endpoint: tele.OnText, Handler: router.TextHandler(msgOpts)},
			{Endpoint: tele.OnPhoto, Handler: router.PhotoHandler(msgOpts)},
			{Endpoint: tele.OnCallback, Handler: router.CallbackHandler(a.registry)},
			{Endpoint: tele.OnChatMember, Handler: a.handlers.OnChatMember},
			{Endpoint: tele.OnChatJoinRequest, Handler: a.handlers.OnJoinRequest},
		},
	}
}
