package handlers

import (
	"strings"

	"channelbot/bot/storage"
	"channelbot/bot/ui"
	"channelbot/core/logger"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/keyboard"
	"channelbot/core/telegram/sender"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ValidPostURL reports whether the button link carries an explicit scheme.
func ValidPostURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// StartPost begins the three-step post composer.
func (h *Handlers) StartPost(c tele.Context) error {
	h.fsm.SetState(c.Sender().ID, StatePostContent)
	return tghelpers.SendText(c,
		"Шаг 1: Пришлите фото с текстом (или просто текст) для вашего будущего поста.",
		ui.Cancel())
}

// ProcessPostContent captures the post body (photo with caption, or text).
func (h *Handlers) ProcessPostContent(c tele.Context) error {
	userID := c.Sender().ID
	text, photoID := messageContent(c.Message())
	if text == "" && photoID == "" {
		return tghelpers.SendText(c, "Пришлите фото с текстом или просто текст.")
	}

	h.fsm.SetTemp(userID, tempPostText, text)
	h.fsm.SetTemp(userID, tempPostPhotoID, photoID)
	h.fsm.SetState(userID, StatePostButtonText)
	return tghelpers.SendText(c,
		"Шаг 2: Теперь введите текст для кнопки (например, 'Перейти на сайт').",
		ui.Back())
}

// ProcessPostButtonText captures the button label. "Назад" steps back to
// the content step without touching the collected draft.
func (h *Handlers) ProcessPostButtonText(c tele.Context) error {
	userID := c.Sender().ID
	if c.Text() == ui.BtnBack {
		h.fsm.SetState(userID, StatePostContent)
		return tghelpers.SendText(c,
			"Возвращаемся назад. Пришлите новый контент (фото/текст) для поста.", ui.Cancel())
	}

	h.fsm.SetTemp(userID, tempPostButtonTxt, c.Text())
	h.fsm.SetState(userID, StatePostButtonURL)
	return tghelpers.SendText(c,
		"Шаг 3: Отлично! Теперь пришлите полную ссылку (URL), которая должна быть в кнопке (начиная с https://).",
		ui.Back())
}

// ProcessPostButtonURL validates the link, persists the draft, and shows
// the preview with the confirmation buttons.
func (h *Handlers) ProcessPostButtonURL(c tele.Context) error {
	userID := c.Sender().ID
	if c.Text() == ui.BtnBack {
		h.fsm.SetState(userID, StatePostButtonText)
		return tghelpers.SendText(c, "Возвращаемся назад. Введите новый текст для кнопки.", ui.Back())
	}
	if !ValidPostURL(c.Text()) {
		return tghelpers.SendText(c,
			"Ссылка должна начинаться с http:// или https://. Попробуйте еще раз.")
	}

	text, _ := h.fsm.GetTempString(userID, tempPostText)
	photoID, _ := h.fsm.GetTempString(userID, tempPostPhotoID)
	buttonText, _ := h.fsm.GetTempString(userID, tempPostButtonTxt)
	buttonURL := c.Text()

	ctx := tghelpers.BuildContext(c)
	if err := h.settings.SetPost(ctx, photoID, text, buttonText, buttonURL); err != nil {
		return tghelpers.SendText(c, "Произошла ошибка, попробуйте позже.")
	}

	if err := tghelpers.SendText(c, "Вот так будет выглядеть ваш пост.", ui.ToMain()); err != nil {
		return err
	}

	previewBtn := keyboard.InlineButtons(keyboard.InlineBtn{Text: buttonText, URL: buttonURL})
	if photoID != "" {
		if err := tghelpers.SendPhoto(c, photoID, text, previewBtn); err != nil {
			return err
		}
	} else {
		if err := tghelpers.SendText(c, text, previewBtn); err != nil {
			return err
		}
	}

	confirmKb := keyboard.InlineButtons(
		keyboard.InlineBtn{Text: "✅ Отправить в канал", Unique: cbPostSendConfirm},
		keyboard.InlineBtn{Text: "❌ Отмена", Unique: cbPostSendCancel},
	)
	h.fsm.Clear(userID)
	return tghelpers.SendText(c, "Подтверждаете отправку?", confirmKb)
}

// CancelPostSend abandons the composed post. The draft stays in the store
// until the next composer run overwrites it.
func (h *Handlers) CancelPostSend(c tele.Context) error {
	return tghelpers.EditText(c, "Отправка отменена.")
}

// ConfirmPostSend publishes the stored draft to the linked channel. The
// publish is synchronous: the admin's confirmation message reports its
// outcome.
func (h *Handlers) ConfirmPostSend(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	s, err := h.settings.Read(ctx)
	if err != nil {
		return tghelpers.EditText(c, "Произошла ошибка, попробуйте позже.")
	}
	if !s.HasChannel() {
		return tghelpers.EditText(c, "Ошибка: Канал не настроен!")
	}
	if !s.PostPublishable() {
		return tghelpers.EditText(c, "Ошибка: Пост не найден. Создайте его заново.")
	}

	channel := tele.ChatID(*s.ChannelID)
	text := storage.StringOrEmpty(s.PostText)
	button := keyboard.InlineButtons(keyboard.InlineBtn{
		Text: storage.StringOrEmpty(s.PostButtonText),
		URL:  storage.StringOrEmpty(s.PostButtonURL),
	})

	if s.PostPhotoID != nil {
		photo := &tele.Photo{File: tele.File{FileID: *s.PostPhotoID}, Caption: text}
		_, err = c.Bot().Send(channel, photo, button)
	} else {
		_, err = c.Bot().Send(channel, text, button)
	}
	if err != nil {
		logger.Error(ctx, "bot", "post.publish_failed",
			slog.Int64("channel_id", *s.ChannelID),
			slog.String("err", sender.RedactToken(err)),
		)
		return tghelpers.EditText(c, "❌ Не удалось отправить пост.")
	}

	logger.Info(ctx, "bot", "post.published", slog.Int64("channel_id", *s.ChannelID))
	return tghelpers.EditText(c, "✅ Пост успешно отправлен в канал!")
}
