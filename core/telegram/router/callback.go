package router

import (
	"time"

	"channelbot/core/logger"
	coretele "channelbot/core/telegram"
	tghelpers "channelbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackHandler answers the callback query and dispatches it by key.
func CallbackHandler(reg *coretele.Registry) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		key, payload := parseCallback(c.Callback())
		if key == "" {
			logHandlerSummary(c, "cb.empty", start, "dropped", nil)
			return nil
		}

		name := "cb." + normalizeHandlerName(key)
		cb, ok := reg.GetCallback(key)
		if !ok {
			// The not-found handler composes its own callback response.
			return handleWithSummary(c, "cb.not_found", start, func() error {
				return reg.CallbackNotFound()(c)
			}, slog.String("cb_key", key))
		}

		// A query must be answered exactly once. Handlers that compose
		// their own response own it; for the rest, answer early so the
		// client stops its spinner even if the handler takes a while.
		if !cb.AnswersQuery {
			if err := c.Respond(); err != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Debug(ctx, "tg", "cb.respond_failed", slog.String("err", err.Error()))
			}
		}

		extras := []slog.Attr{slog.String("cb_key", key)}
		if payload != "" {
			extras = append(extras, slog.String("payload", logger.SanitizeLimit(payload, 64)))
		}
		return handleWithSummary(c, name, start, func() error {
			return cb.Handler(c)
		}, extras...)
	}
}
