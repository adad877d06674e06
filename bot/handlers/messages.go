package handlers

import (
	"channelbot/bot/storage"
	"channelbot/bot/ui"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// messageContent extracts the text or the photo with its caption from an
// incoming wizard message.
func messageContent(m *tele.Message) (text, photoID string) {
	if m == nil {
		return "", ""
	}
	if m.Photo != nil {
		return m.Caption, m.Photo.FileID
	}
	return m.Text, ""
}

func redirectToChannelKb() *tele.ReplyMarkup {
	return keyboard.InlineButtons(
		keyboard.InlineBtn{Text: "Добавить канал", Unique: cbRedirectChannel},
	)
}

// SetupStartMessage starts the /start reply wizard.
func (h *Handlers) SetupStartMessage(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, StateAwaitStartMessage)
	return tghelpers.SendText(c,
		"Отправьте текст, который пользователь увидит при команде /start.",
		ui.Cancel())
}

// ProcessStartMessage stores the new /start reply.
func (h *Handlers) ProcessStartMessage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.settings.SetStartMessage(ctx, c.Text()); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "Сообщение для команды /start успешно обновлено!", ui.ToMain())
}

// SetupWelcome shows the current welcome message and starts the wizard.
// Requires a linked channel.
func (h *Handlers) SetupWelcome(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	s, err := h.settings.Read(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	if !s.HasChannel() {
		return tghelpers.SendText(c,
			"Эта функция редактирует приветствие для канала. Сначала нужно привязать канал.",
			redirectToChannelKb())
	}

	if err := tghelpers.SendText(c, "🔎 Текущее приветствие выглядит так:"); err != nil {
		return err
	}
	if err := h.previewMessage(c, s.WelcomeText, s.WelcomePhotoID, "Приветствие ещё не создано."); err != nil {
		return err
	}

	h.fsm.SetState(c.Sender().ID, StateAwaitWelcome)
	return tghelpers.SendText(c,
		"Теперь пришлите новое фото и текст для приветствия (одним сообщением).\n"+
			"Если хотите оставить только текст, просто пришлите текст.",
		ui.Cancel())
}

// ProcessWelcome stores the new welcome message. Both columns are replaced
// so a text-only update clears a stale photo.
func (h *Handlers) ProcessWelcome(c tele.Context) error {
	text, photoID := messageContent(c.Message())
	ctx := tghelpers.BuildContext(c)
	if err := h.settings.SetWelcome(ctx, text, photoID); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "Приветствие успешно создано! ✅", ui.ToMain())
}

// SetupGoodbye shows the current goodbye message and starts the wizard.
// Requires a linked channel.
func (h *Handlers) SetupGoodbye(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	s, err := h.settings.Read(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	if !s.HasChannel() {
		return tghelpers.SendText(c, "Сначала нужно настроить канал.", redirectToChannelKb())
	}

	if err := tghelpers.SendText(c, "🔎 Текущее прощальное сообщение выглядит так:", ui.Cancel()); err != nil {
		return err
	}
	if err := h.previewMessage(c, s.GoodbyeText, s.GoodbyePhotoID, "Прощальное сообщение ещё не создано."); err != nil {
		return err
	}

	h.fsm.SetState(c.Sender().ID, StateAwaitGoodbye)
	return tghelpers.SendText(c,
		"Теперь пришлите новое фото и текст для прощального сообщения (одним сообщением).")
}

// ProcessGoodbye stores the new goodbye message.
func (h *Handlers) ProcessGoodbye(c tele.Context) error {
	text, photoID := messageContent(c.Message())
	ctx := tghelpers.BuildContext(c)
	if err := h.settings.SetGoodbye(ctx, text, photoID); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}
	h.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "✅ Прощальное сообщение успешно сохранено!", ui.Main())
}

func (h *Handlers) previewMessage(c tele.Context, text, photoID *string, emptyNotice string) error {
	switch {
	case photoID != nil:
		return tghelpers.SendPhoto(c, *photoID, storage.StringOrEmpty(text))
	case text != nil:
		return tghelpers.SendText(c, *text)
	default:
		return tghelpers.SendText(c, emptyNotice)
	}
}
