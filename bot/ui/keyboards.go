// Package ui holds the button labels and reply keyboards of the admin panel.
// Handlers and the router match incoming text against these labels, so they
// live in one place.
package ui

import (
	"channelbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Button labels shown on reply keyboards.
const (
	BtnMainMenu    = "Главное меню"
	BtnEditWelcome = "Редактировать приветствие"
	BtnAutoApprove = "Авто прием Вкл.\\Выкл."
	BtnGoodbye     = "Сообщение при выходе"
	BtnSetChannel  = "Настроить канал"
	BtnAddAdmin    = "Добавить админа"
	BtnStartMsg    = "Сообщение при /start"
	BtnCreatePost  = "Создать пост"
	BtnCancel      = "Вернуться в главное меню"
	BtnBack        = "⬅️ Назад"
)

// ToMain offers a single button leading back to the admin panel.
func ToMain() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnMainMenu})
}

// Main is the admin panel keyboard.
func Main() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnEditWelcome, BtnAutoApprove},
		[]string{BtnGoodbye, BtnSetChannel},
		[]string{BtnAddAdmin, BtnStartMsg},
		[]string{BtnCreatePost},
	)
}

// Cancel aborts the active wizard.
func Cancel() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnCancel})
}

// Back steps one wizard step backwards.
func Back() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnBack})
}
