package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"channelbot/bot/ui"
	tghelpers "channelbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ParseUserID validates a user id entered by an admin: digits only.
func ParseUserID(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	for _, r := range text {
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

// StartAddAdmin starts the admin promotion wizard.
func (h *Handlers) StartAddAdmin(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, StateAwaitAdminID)
	return tghelpers.SendText(c,
		"Введите ID пользователя, которого хотите назначить администратором.",
		ui.Cancel())
}

// ProcessAdminID promotes the entered user id, re-prompting on bad input.
// The target does not have to be known to the bot yet.
func (h *Handlers) ProcessAdminID(c tele.Context) error {
	adminID, ok := ParseUserID(c.Text())
	if !ok {
		return tghelpers.SendText(c,
			"ID должен состоять только из цифр. Попробуйте еще раз.", ui.Cancel())
	}

	ctx := tghelpers.BuildContext(c)
	if err := h.users.Promote(ctx, adminID); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка при добавлении администратора.")
	}

	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendMD(c,
		fmt.Sprintf("✅ Пользователь с ID `%d` успешно назначен администратором.", adminID),
		ui.ToMain())
}
