package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	LongPollTimeoutSeconds int
	// AllowedUpdates restricts which update kinds Telegram delivers.
	// Membership transitions are not delivered unless requested.
	AllowedUpdates []string
}

// DefaultAllowedUpdates lists the update kinds the bot handles.
var DefaultAllowedUpdates = []string{
	"message",
	"callback_query",
	"chat_member",
	"chat_join_request",
}

// BuildPoller returns a long poller based on provided options.
func BuildPoller(opts PollerOptions) tele.Poller {
	timeoutSec := opts.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	allowed := opts.AllowedUpdates
	if len(allowed) == 0 {
		allowed = DefaultAllowedUpdates
	}
	return &tele.LongPoller{
		Timeout:        time.Duration(timeoutSec) * time.Second,
		AllowedUpdates: allowed,
	}
}
