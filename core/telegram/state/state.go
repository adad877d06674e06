// Package state provides a lightweight in-memory FSM/session manager for
// multi-step Telegram conversations. Sessions are ephemeral: they live
// until completion, cancellation, or process exit.
package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Session stores the conversation state and the draft fields collected so
// far for a single user.
type Session struct {
	State    State
	TempData map[string]any
}

// Manager orchestrates user sessions and FSM state transitions. Handlers
// for each state are registered on the manager itself, so routing from a
// state to its handler has exactly one owner.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	// InProgress reports whether the user has an active non-idle state.
	InProgress(userID int64) bool

	SetTemp(userID int64, key string, value any)
	GetTemp(userID int64, key string) (any, bool)
	GetTempString(userID int64, key string) (string, bool)
	ClearTemp(userID int64, key string)

	// Clear removes the whole session: state and collected draft fields.
	Clear(userID int64)

	// RegisterHandler associates a state with its continuation handler.
	RegisterHandler(st State, h tele.HandlerFunc)
	// Dispatch runs the handler registered for the sender's current state.
	Dispatch(c tele.Context) error
}
