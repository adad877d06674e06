package handlers

import (
	"channelbot/bot/ui"
	"channelbot/core/logger"
	tghelpers "channelbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const defaultStartText = "Добро пожаловать в бота!"

// Start answers /start. Admins get the panel entry keyboard, everyone else
// gets the configured greeting (or the default one).
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if err := h.users.EnsureExists(ctx, userID); err != nil {
		logger.Warn(ctx, "bot", "start.ensure_user_failed", slog.String("err", err.Error()))
	}

	isAdmin, err := h.users.IsAdmin(ctx, userID)
	if err != nil {
		logger.Error(ctx, "bot", "start.admin_check_failed", slog.String("err", err.Error()))
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	if isAdmin {
		return tghelpers.SendText(c, "Добро пожаловать в админ-панель!", ui.ToMain())
	}

	text := defaultStartText
	if s, err := h.settings.Read(ctx); err == nil && s.StartMessage != nil {
		text = *s.StartMessage
	}
	return tghelpers.SendText(c, text)
}

// MainMenu shows the admin panel. Access is enforced by the router.
func (h *Handlers) MainMenu(c tele.Context) error {
	return tghelpers.SendText(c, "Главное меню:", ui.Main())
}

// ToggleAutoApprove flips join-request auto approval and reports the new
// state.
func (h *Handlers) ToggleAutoApprove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	s, err := h.settings.Read(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	enabled := !s.AutoApproveEnabled
	if err := h.settings.SetAutoApprove(ctx, enabled); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}

	status := "❌ Выключен"
	if enabled {
		status = "✅ Включен"
	}
	return tghelpers.SendText(c, "Режим автоприема заявок: "+status, ui.Main())
}
