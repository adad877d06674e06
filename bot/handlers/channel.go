package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"channelbot/bot/ui"
	"channelbot/core/logger"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/keyboard"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ParseChannelID validates a channel id entered by an admin. Channel ids
// come from Telegram as negative numbers with the -100 prefix.
func ParseChannelID(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "-100") {
		return 0, false
	}
	for _, r := range text[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetupChannel starts the channel wizard. When a channel is already linked
// the admin is asked whether to replace it.
func (h *Handlers) SetupChannel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	s, err := h.settings.Read(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}

	if s.HasChannel() {
		kb := keyboard.InlineButtons(
			keyboard.InlineBtn{Text: "Да", Unique: cbChangeChannelYes},
			keyboard.InlineBtn{Text: "Нет", Unique: cbChangeChannelNo},
		)
		return tghelpers.SendMD(c,
			fmt.Sprintf("Бот уже привязан к каналу с ID: `%d`.\nХотите изменить канал?", *s.ChannelID),
			kb)
	}

	h.fsm.SetState(c.Sender().ID, StateAwaitChannelID)
	return tghelpers.SendText(c,
		"Канал еще не привязан. Пожалуйста, отправьте ID вашего канала.\n\n"+
			"Инструкция: Добавьте @бота в администраторы канала со всеми правами.",
		ui.Cancel())
}

// ChangeChannelYes restarts the wizard to replace the linked channel.
func (h *Handlers) ChangeChannelYes(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, StateAwaitChannelID)
	return tghelpers.SendText(c, "Введите новый ID канала.", ui.Cancel())
}

// ChangeChannelNo keeps the current channel and removes the question.
func (h *Handlers) ChangeChannelNo(c tele.Context) error {
	if err := c.Respond(&tele.CallbackResponse{Text: "Отлично, оставляем как есть.", ShowAlert: true}); err != nil {
		logger.Debug(tghelpers.BuildContext(c), "bot", "channel.keep_respond_failed",
			slog.String("err", err.Error()))
	}
	return c.Delete()
}

// RedirectToAddChannel jumps into the channel wizard from the "no channel
// linked yet" notice of other wizards.
func (h *Handlers) RedirectToAddChannel(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, StateAwaitChannelID)
	return tghelpers.SendText(c, "Введите ID канала.", ui.Cancel())
}

// ProcessChannelID consumes the entered id, re-prompting on bad input.
func (h *Handlers) ProcessChannelID(c tele.Context) error {
	channelID, ok := ParseChannelID(c.Text())
	if !ok {
		return tghelpers.SendText(c,
			"Неверный формат ID. ID канала должен быть числом и начинаться с -100. Попробуйте снова.")
	}

	ctx := tghelpers.BuildContext(c)
	if err := h.settings.SetChannelID(ctx, channelID); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}

	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendMD(c,
		fmt.Sprintf("Отлично! Канал с ID `%d` успешно сохранен.", channelID),
		ui.ToMain())
}
