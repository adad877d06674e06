package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func nopHandler(tele.Context) error { return nil }

func TestRegistryMenuExactAndPrefix(t *testing.T) {
	r := NewRegistry()
	r.RegisterMenu("Настроить канал", MenuAction{Handler: nopHandler, AdminOnly: true})
	r.RegisterMenu("Авто прием", MenuAction{Handler: nopHandler, AdminOnly: true, Prefix: true})

	if _, _, ok := r.LookupMenu("Настроить канал"); !ok {
		t.Error("exact menu lookup failed")
	}
	key, _, ok := r.LookupMenu("Авто прием Вкл.\\Выкл.")
	if !ok || key != "Авто прием" {
		t.Errorf("prefix lookup = %q, %v", key, ok)
	}
	if _, _, ok := r.LookupMenu("Что-то другое"); ok {
		t.Error("unexpected match for unknown text")
	}
}

func TestRegistryMenuDuplicateRejected(t *testing.T) {
	r := NewRegistry()
	first := MenuAction{Handler: nopHandler, Entry: true}
	r.RegisterMenu("Главное меню", first)
	r.RegisterMenu("Главное меню", MenuAction{Handler: nopHandler})

	_, action, ok := r.LookupMenu("Главное меню")
	if !ok {
		t.Fatal("menu action lost")
	}
	if !action.Entry {
		t.Error("duplicate registration must not overwrite the first handler")
	}
}

func TestRegistryCallbackDuplicateRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("post_send_confirm", Callback{Handler: nopHandler}); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := r.RegisterCallback("post_send_confirm", Callback{Handler: nopHandler}); err == nil {
		t.Error("expected duplicate callback registration to fail")
	}
	if got := len(r.ListCallbacks()); got != 1 {
		t.Errorf("expected 1 callback, got %d", got)
	}
}

func TestRegistryCallbackAnswerOwnership(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("change_channel_no", Callback{Handler: nopHandler, AnswersQuery: true}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCallback("change_channel_yes", Callback{Handler: nopHandler}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if cb, ok := r.GetCallback("change_channel_no"); !ok || !cb.AnswersQuery {
		t.Error("self-answering callback must keep its AnswersQuery flag")
	}
	if cb, ok := r.GetCallback("change_channel_yes"); !ok || cb.AnswersQuery {
		t.Error("plain callback must not claim answer ownership")
	}
}

func TestRegistryCommandValidation(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("start", Command{Handler: nopHandler, Description: "no slash"})
	if len(r.Commands()) != 0 {
		t.Error("command without slash prefix must be rejected")
	}
	r.RegisterCommand("/start", Command{Handler: nopHandler, Description: "start"})
	if _, ok := r.LookupCommand("/start"); !ok {
		t.Error("registered command not found")
	}
}

func TestRegistryListCommandsHidesHidden(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", Command{Handler: nopHandler, Description: "start"})
	r.RegisterCommand("/debug", Command{Handler: nopHandler, Description: "debug", Hidden: true})

	list := r.ListCommands(true)
	if len(list) != 1 || list[0].Text != "/start" {
		t.Errorf("unexpected visible commands: %v", list)
	}
}
