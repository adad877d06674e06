package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"channelbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Command represents a slash command with its handler and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}

// MenuAction represents an exact-text reply-keyboard action.
type MenuAction struct {
	Handler tele.HandlerFunc
	// AdminOnly actions are dropped for non-admin senders.
	AdminOnly bool
	// Entry marks the main-menu entry point: non-admins get the refusal
	// reply there instead of a silent drop.
	Entry bool
	// Prefix matches button labels that carry a changing suffix.
	Prefix bool
}

// Callback binds a handler to an inline-button key. Handlers that compose
// their own callback response (alerts, custom texts) set AnswersQuery; for
// the rest the router sends the empty acknowledgement, and a query must be
// answered exactly once.
type Callback struct {
	Handler      tele.HandlerFunc
	AnswersQuery bool
}

// Registry holds bot commands, menu actions, and callbacks. Registration
// of a duplicate key is rejected, so each trigger maps to exactly one
// handler.
type Registry struct {
	commands         map[string]Command
	menus            map[string]MenuAction
	menuOrder        []string
	callbacks        map[string]Callback
	callbacksMu      sync.RWMutex
	callbackNotFound tele.HandlerFunc
}

// NewRegistry creates an empty Registry with default fallbacks.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		menus:     make(map[string]MenuAction),
		callbacks: make(map[string]Callback),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// RegisterCommand adds a new slash command.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if r == nil || name == "" || cmd.Handler == nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// RegisterMenu adds an exact-text menu action.
func (r *Registry) RegisterMenu(text string, action MenuAction) {
	if r == nil || strings.TrimSpace(text) == "" || action.Handler == nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.menu.skip",
			slog.String("text", text),
			slog.String("reason", "invalid"),
		)
		return
	}
	if _, exists := r.menus[text]; exists {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.menu.duplicate",
			slog.String("text", text),
		)
		return
	}
	r.menus[text] = action
	r.menuOrder = append(r.menuOrder, text)
}

// LookupCommand searches for a slash command by exact name.
func (r *Registry) LookupCommand(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// LookupMenu resolves an incoming message text to a menu action, first by
// exact match, then by registered prefix.
func (r *Registry) LookupMenu(text string) (string, MenuAction, bool) {
	if action, ok := r.menus[text]; ok {
		return text, action, true
	}
	for _, key := range r.menuOrder {
		action := r.menus[key]
		if action.Prefix && strings.HasPrefix(text, key) {
			return key, action, true
		}
	}
	return "", MenuAction{}, false
}

// Commands returns all registered slash commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// ListCommands returns tele.Command entries, optionally filtering hidden ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// RegisterCallback adds a callback mapped to its key.
func (r *Registry) RegisterCallback(key string, cb Callback) error {
	if r == nil || key == "" || cb.Handler == nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.callback.skip",
			slog.String("key", key),
			slog.Bool("handler_nil", cb.Handler == nil),
		)
		return errors.New("invalid callback registration")
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.callback.duplicate",
			slog.String("key", key),
		)
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = cb
	return nil
}

// GetCallback safely returns a callback by key.
func (r *Registry) GetCallback(key string) (Callback, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	cb, ok := r.callbacks[key]
	return cb, ok
}

// ListCallbacks returns sorted keys (for diagnostics).
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetCallbackNotFound replaces the fallback handler for unknown callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

// CallbackNotFound returns the current fallback callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	visible := reg.ListCommands(true)
	if len(visible) == 0 {
		return
	}
	if err := bot.SetCommands(visible); err != nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
