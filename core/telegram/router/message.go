// Package router wires incoming updates to their handlers. Text messages are
// resolved in a fixed order: cancel trigger while a wizard is active, then the
// active wizard step, then menu actions and commands; unmatched text is dropped.
package router

import (
	"strings"
	"time"

	"channelbot/core/logger"
	coretele "channelbot/core/telegram"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/middleware"
	"channelbot/core/telegram/state"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// MessageOptions configures the text and photo routers.
type MessageOptions struct {
	Registry *coretele.Registry
	FSM      state.Manager

	// CancelText aborts any active wizard and invokes OnCancel.
	CancelText string
	OnCancel   tele.HandlerFunc

	// Admin gates menu actions marked AdminOnly. OnReject answers entry
	// actions only; nested actions are dropped silently.
	Admin    middleware.AdminChecker
	OnReject tele.HandlerFunc
}

// TextHandler resolves plain text messages.
func TextHandler(opts MessageOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		text := strings.TrimSpace(c.Text())
		if text == "" {
			return nil
		}
		userID := c.Sender().ID

		if opts.CancelText != "" && text == opts.CancelText && opts.FSM.InProgress(userID) {
			opts.FSM.Clear(userID)
			return handleWithSummary(c, "wizard.cancel", start, func() error {
				if opts.OnCancel == nil {
					return nil
				}
				return opts.OnCancel(c)
			})
		}

		if opts.FSM.InProgress(userID) {
			st := opts.FSM.GetState(userID)
			return handleWithSummary(c, "fsm."+normalizeHandlerName(string(st)), start, func() error {
				return opts.FSM.Dispatch(c)
			})
		}

		if key, action, ok := opts.Registry.LookupMenu(text); ok {
			return dispatchMenu(c, opts, key, start, action)
		}

		if name := commandName(text); name != "" {
			if cmd, ok := opts.Registry.LookupCommand(name); ok {
				return handleWithSummary(c, "cmd."+normalizeHandlerName(name), start, func() error {
					return cmd.Handler(c)
				})
			}
		}

		ctx := tghelpers.BuildContext(c)
		logger.Debug(ctx, "tg", "text.unrouted", slog.String("text", logger.SanitizeLimit(text, 64)))
		return nil
	}
}

func dispatchMenu(c tele.Context, opts MessageOptions, text string, start time.Time, action coretele.MenuAction) error {
	name := "menu." + normalizeHandlerName(text)
	if action.AdminOnly && opts.Admin != nil {
		ok, err := opts.Admin.IsAdmin(tghelpers.BuildContext(c), c.Sender().ID)
		if err != nil || !ok {
			if err != nil {
				logger.Warn(tghelpers.BuildContext(c), "tg", "menu.admin_check_failed",
					slog.String("err", err.Error()))
			}
			if action.Entry && opts.OnReject != nil {
				return handleWithSummary(c, name, start, func() error {
					return opts.OnReject(c)
				}, slog.String("access", "denied"))
			}
			logHandlerSummary(c, name, start, "denied", nil)
			return nil
		}
	}
	return handleWithSummary(c, name, start, func() error {
		return action.Handler(c)
	})
}

// commandName extracts "/cmd" from "/cmd", "/cmd@botname", and "/cmd args".
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	if i := strings.IndexAny(text, " @"); i > 0 {
		return text[:i]
	}
	return text
}

// PhotoHandler routes photo messages. Photos are meaningful only inside a
// wizard step that accepts media; anything else is dropped.
func PhotoHandler(opts MessageOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		userID := c.Sender().ID
		if !opts.FSM.InProgress(userID) {
			ctx := tghelpers.BuildContext(c)
			logger.Debug(ctx, "tg", "photo.unrouted")
			return nil
		}
		st := opts.FSM.GetState(userID)
		return handleWithSummary(c, "fsm."+normalizeHandlerName(string(st)), start, func() error {
			return opts.FSM.Dispatch(c)
		})
	}
}
