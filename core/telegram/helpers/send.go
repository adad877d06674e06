package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"channelbot/core/logger"
	"channelbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends plain text to the current chat with an optional keyboard.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	rm := pickMarkup(markup)
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if rm != nil {
			return c.Send(text, rm)
		}
		return c.Send(text)
	})
}

// SendMD sends a message with Markdown parse mode and optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: pickMarkup(markup)}
	return sendAsync(c, "send.md", "sendMessage", func() error {
		return c.Send(text, opts)
	})
}

// SendPhoto sends a photo by file id with a caption to the current chat.
func SendPhoto(c tele.Context, photoID, caption string, markup ...*tele.ReplyMarkup) error {
	photo := &tele.Photo{File: tele.File{FileID: photoID}, Caption: caption}
	rm := pickMarkup(markup)
	return sendAsync(c, "send.photo", "sendPhoto", func() error {
		if rm != nil {
			return c.Send(photo, rm)
		}
		return c.Send(photo)
	})
}

// SendTextTo delivers plain text to an arbitrary recipient, typically a
// user's private chat. Best effort: failures are logged by the dispatcher.
func SendTextTo(c tele.Context, to tele.Recipient, text string, markup ...*tele.ReplyMarkup) error {
	bot := c.Bot()
	rm := pickMarkup(markup)
	return sendAsync(c, "send.text_to", "sendMessage", func() error {
		if rm != nil {
			_, err := bot.Send(to, text, rm)
			return err
		}
		_, err := bot.Send(to, text)
		return err
	})
}

// SendPhotoTo delivers a photo by file id to an arbitrary recipient.
func SendPhotoTo(c tele.Context, to tele.Recipient, photoID, caption string, markup ...*tele.ReplyMarkup) error {
	bot := c.Bot()
	photo := &tele.Photo{File: tele.File{FileID: photoID}, Caption: caption}
	rm := pickMarkup(markup)
	return sendAsync(c, "send.photo_to", "sendPhoto", func() error {
		if rm != nil {
			_, err := bot.Send(to, photo, rm)
			return err
		}
		_, err := bot.Send(to, photo)
		return err
	})
}

// EditText edits the message bound to the context in place. Edits are
// synchronous: the follow-up flow depends on their result.
func EditText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	rm := pickMarkup(markup)
	if rm != nil {
		return c.Edit(text, rm)
	}
	return c.Edit(text)
}

func pickMarkup(markup []*tele.ReplyMarkup) *tele.ReplyMarkup {
	if len(markup) > 0 {
		return markup[0]
	}
	return nil
}
