package handlers

import "channelbot/core/telegram/state"

// Wizard states. Each state has exactly one continuation handler registered
// on the FSM manager.
const (
	StateAwaitChannelID    state.State = "channel.await_id"
	StateAwaitStartMessage state.State = "start_message.await_text"
	StateAwaitWelcome      state.State = "welcome.await_content"
	StateAwaitGoodbye      state.State = "goodbye.await_content"
	StateAwaitAdminID      state.State = "admin.await_id"
	StatePostContent       state.State = "post.await_content"
	StatePostButtonText    state.State = "post.await_button_text"
	StatePostButtonURL     state.State = "post.await_button_url"
)

// Draft keys in the FSM session.
const (
	tempPostPhotoID   = "post_photo_id"
	tempPostText      = "post_text"
	tempPostButtonTxt = "post_button_text"
)
