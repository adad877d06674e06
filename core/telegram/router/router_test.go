package router

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestCommandName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/start", "/start"},
		{"/start@my_bot", "/start"},
		{"/start deep-link-arg", "/start"},
		{"not a command", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := commandName(tc.in); got != tc.want {
			t.Errorf("commandName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseCallback(t *testing.T) {
	key, payload := parseCallback(&tele.Callback{Data: "\fchange_channel_yes|"})
	if key != "change_channel_yes" || payload != "" {
		t.Errorf("got (%q, %q)", key, payload)
	}

	key, payload = parseCallback(&tele.Callback{Data: "\fpick|42"})
	if key != "pick" || payload != "42" {
		t.Errorf("got (%q, %q)", key, payload)
	}

	// Unique already split by telebot.
	key, payload = parseCallback(&tele.Callback{Unique: "post_send_confirm", Data: "x"})
	if key != "post_send_confirm" || payload != "x" {
		t.Errorf("got (%q, %q)", key, payload)
	}

	if key, _ := parseCallback(nil); key != "" {
		t.Errorf("nil callback: got %q", key)
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/Start", "start"},
		{"Главное меню", "главное_меню"},
		{"  ", "unknown"},
	}
	for _, tc := range cases {
		if got := normalizeHandlerName(tc.in); got != tc.want {
			t.Errorf("normalizeHandlerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
