package telegram

import (
	"context"
	"fmt"

	"channelbot/core/config"
	"channelbot/core/logger"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/sender"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Route binds a telebot endpoint to its handler.
type Route struct {
	Endpoint string
	Handler  tele.HandlerFunc
}

// Middleware is a named telebot middleware. Names show up in the startup log
// so the active chain is visible at a glance.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// RunOptions describes everything needed to start the bot.
type RunOptions struct {
	Config      *config.Config
	Registry    *Registry
	Middlewares []Middleware
	Routes      []Route

	// Dispatcher options for the async sender; zero value uses defaults.
	Sender sender.Options

	// OnStart runs after the bot is constructed but before polling begins.
	OnStart func(bot *tele.Bot) error
	// OnStop runs once polling has stopped.
	OnStop func()
}

// Run builds the bot, wires middlewares and routes, then long-polls until
// the context is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config")
	}
	cfg := opts.Config

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Client: BuildHTTPClient(),
		Poller: BuildPoller(PollerOptions{
			LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		}),
	})
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}

	// Long polling and a previously set webhook are mutually exclusive.
	if err := bot.RemoveWebhook(); err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "webhook.remove_failed",
			slog.String("err", sender.RedactToken(err)),
		)
	}

	dispatcher := sender.NewDispatcher(opts.Sender)
	tghelpers.SetDispatcher(dispatcher)

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
		logger.TG.LogAttrs(ctx, slog.LevelDebug, "middleware.attached",
			slog.String("name", mw.Name),
		)
	}
	for _, rt := range opts.Routes {
		if rt.Endpoint == "" || rt.Handler == nil {
			continue
		}
		bot.Handle(rt.Endpoint, rt.Handler)
	}

	if opts.Registry != nil {
		InitBotCommands(bot, opts.Registry)
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(bot); err != nil {
			dispatcher.Close()
			return fmt.Errorf("telegram: on start: %w", err)
		}
	}

	logger.TG.LogAttrs(ctx, slog.LevelInfo, "bot.starting",
		slog.String("username", bot.Me.Username),
		slog.Int64("bot_id", bot.Me.ID),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
	case <-done:
	}

	dispatcher.Close()
	if opts.OnStop != nil {
		opts.OnStop()
	}

	logger.TG.LogAttrs(logger.Background(), slog.LevelInfo, "bot.stopped",
		slog.Uint64("send_errors", dispatcher.ErrorCount()),
	)
	return nil
}
