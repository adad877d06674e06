// Package handlers implements the admin panel: channel linking, message
// wizards, admin promotion, the post composer, and the membership reactors.
package handlers

import (
	"context"

	"channelbot/bot/storage"
	"channelbot/bot/ui"
	coretele "channelbot/core/telegram"
	tghelpers "channelbot/core/telegram/helpers"
	"channelbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Callback keys.
const (
	cbChangeChannelYes = "change_channel_yes"
	cbChangeChannelNo  = "change_channel_no"
	cbRedirectChannel  = "redirect_to_add_channel"
	cbPostSendConfirm  = "post_send_confirm"
	cbPostSendCancel   = "post_send_cancel"
)

const accessDeniedText = "⛔️ У вас нет доступа."

// Handlers binds the stores and the FSM manager to the bot surface.
type Handlers struct {
	settings *storage.SettingsStore
	users    *storage.UserStore
	fsm      state.Manager
}

// New creates the handler set.
func New(settings *storage.SettingsStore, users *storage.UserStore, fsm state.Manager) *Handlers {
	return &Handlers{settings: settings, users: users, fsm: fsm}
}

// IsAdmin implements middleware.AdminChecker for the router's menu gating.
func (h *Handlers) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return h.users.IsAdmin(ctx, userID)
}

// Register wires commands, menu actions, callbacks, and FSM continuations
// into the registry and the FSM manager.
func (h *Handlers) Register(reg *coretele.Registry) error {
	reg.RegisterCommand("/start", coretele.Command{
		Handler:     h.Start,
		Description: "Запустить бота",
	})

	reg.RegisterMenu(ui.BtnMainMenu, coretele.MenuAction{Handler: h.MainMenu, AdminOnly: true, Entry: true})
	reg.RegisterMenu(ui.BtnSetChannel, coretele.MenuAction{Handler: h.SetupChannel, AdminOnly: true})
	reg.RegisterMenu(ui.BtnStartMsg, coretele.MenuAction{Handler: h.SetupStartMessage, AdminOnly: true})
	reg.RegisterMenu(ui.BtnEditWelcome, coretele.MenuAction{Handler: h.SetupWelcome, AdminOnly: true})
	reg.RegisterMenu(ui.BtnGoodbye, coretele.MenuAction{Handler: h.SetupGoodbye, AdminOnly: true})
	reg.RegisterMenu(ui.BtnAddAdmin, coretele.MenuAction{Handler: h.StartAddAdmin, AdminOnly: true})
	reg.RegisterMenu(ui.BtnAutoApprove, coretele.MenuAction{Handler: h.ToggleAutoApprove, AdminOnly: true, Prefix: true})
	reg.RegisterMenu(ui.BtnCreatePost, coretele.MenuAction{Handler: h.StartPost, AdminOnly: true})

	for key, cb := range map[string]coretele.Callback{
		cbChangeChannelYes: {Handler: h.ChangeChannelYes},
		// Answers with an alert, so it owns the callback response.
		cbChangeChannelNo: {Handler: h.ChangeChannelNo, AnswersQuery: true},
		cbRedirectChannel: {Handler: h.RedirectToAddChannel},
		cbPostSendConfirm: {Handler: h.ConfirmPostSend},
		cbPostSendCancel:  {Handler: h.CancelPostSend},
	} {
		if err := reg.RegisterCallback(key, cb); err != nil {
			return err
		}
	}

	h.fsm.RegisterHandler(StateAwaitChannelID, h.ProcessChannelID)
	h.fsm.RegisterHandler(StateAwaitStartMessage, h.ProcessStartMessage)
	h.fsm.RegisterHandler(StateAwaitWelcome, h.ProcessWelcome)
	h.fsm.RegisterHandler(StateAwaitGoodbye, h.ProcessGoodbye)
	h.fsm.RegisterHandler(StateAwaitAdminID, h.ProcessAdminID)
	h.fsm.RegisterHandler(StatePostContent, h.ProcessPostContent)
	h.fsm.RegisterHandler(StatePostButtonText, h.ProcessPostButtonText)
	h.fsm.RegisterHandler(StatePostButtonURL, h.ProcessPostButtonURL)

	return nil
}

// Cancel aborts the active wizard and returns the admin panel keyboard.
// The router clears the FSM session before invoking it.
func (h *Handlers) Cancel(c tele.Context) error {
	return tghelpers.SendText(c, "Действие отменено. Вы возвращены в главное меню.", ui.Main())
}

// Denied replies to non-admins entering the panel.
func (h *Handlers) Denied(c tele.Context) error {
	return tghelpers.SendText(c, accessDeniedText)
}
