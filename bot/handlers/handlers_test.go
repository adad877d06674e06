package handlers

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseChannelID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"-1001234567890", -1001234567890, true},
		{" -1001234567890 ", -1001234567890, true},
		{"-100", -100, true},
		{"-1001234abc", 0, false},
		{"1001234567890", 0, false},
		{"-2001234567890", 0, false},
		{"@mychannel", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseChannelID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseChannelID(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseUserID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"555666777", 555666777, true},
		{"55", 55, true},
		{" 42 ", 42, true},
		{"-42", 0, false},
		{"12a4", 0, false},
		{"@user", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseUserID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseUserID(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidPostURL(t *testing.T) {
	valid := []string{"https://example.com", "http://example.com/page?x=1"}
	invalid := []string{"example.com", "ftp://example.com", "www.example.com", ""}

	for _, u := range valid {
		if !ValidPostURL(u) {
			t.Errorf("ValidPostURL(%q) = false, want true", u)
		}
	}
	for _, u := range invalid {
		if ValidPostURL(u) {
			t.Errorf("ValidPostURL(%q) = true, want false", u)
		}
	}
}

func TestJoinedChannel(t *testing.T) {
	cases := []struct {
		from, to tele.MemberStatus
		want     bool
	}{
		{tele.Left, tele.Member, true},
		{tele.Kicked, tele.Member, true},
		{tele.Left, tele.Administrator, true},
		{tele.Member, tele.Administrator, false},
		{tele.Member, tele.Member, false},
		{tele.Restricted, tele.Member, false},
	}
	for _, tc := range cases {
		if got := JoinedChannel(tc.from, tc.to); got != tc.want {
			t.Errorf("JoinedChannel(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestLeftChannel(t *testing.T) {
	cases := []struct {
		from, to tele.MemberStatus
		want     bool
	}{
		{tele.Member, tele.Left, true},
		{tele.Member, tele.Kicked, true},
		{tele.Administrator, tele.Left, true},
		{tele.Left, tele.Kicked, false},
		{tele.Member, tele.Restricted, false},
	}
	for _, tc := range cases {
		if got := LeftChannel(tc.from, tc.to); got != tc.want {
			t.Errorf("LeftChannel(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSubstituteUser(t *testing.T) {
	if got := SubstituteUser("Hi {user}!", "Ann"); got != "Hi Ann!" {
		t.Errorf("SubstituteUser = %q, want %q", got, "Hi Ann!")
	}
	if got := SubstituteUser("no placeholder", "Ann"); got != "no placeholder" {
		t.Errorf("SubstituteUser without placeholder = %q", got)
	}
	if got := SubstituteUser("{user} and {user}", "Bob"); got != "Bob and Bob" {
		t.Errorf("SubstituteUser repeated = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName(&tele.User{FirstName: "Ann"}); got != "Ann" {
		t.Errorf("displayName = %q", got)
	}
	if got := displayName(&tele.User{FirstName: "Ann", LastName: "Lee"}); got != "Ann Lee" {
		t.Errorf("displayName = %q", got)
	}
	if got := displayName(nil); got != "" {
		t.Errorf("displayName(nil) = %q", got)
	}
}

func TestMessageContent(t *testing.T) {
	text, photo := messageContent(&tele.Message{Text: "hello"})
	if text != "hello" || photo != "" {
		t.Errorf("text message: got (%q, %q)", text, photo)
	}

	m := &tele.Message{
		Photo:   &tele.Photo{File: tele.File{FileID: "file-1"}},
		Caption: "caption",
	}
	text, photo = messageContent(m)
	if text != "caption" || photo != "file-1" {
		t.Errorf("photo message: got (%q, %q)", text, photo)
	}

	text, photo = messageContent(nil)
	if text != "" || photo != "" {
		t.Errorf("nil message: got (%q, %q)", text, photo)
	}
}
