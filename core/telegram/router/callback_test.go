package router

import (
	"testing"

	coretele "channelbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// cbContext is a minimal tele.Context for driving the callback router.
// Only the methods the router and its helpers touch are implemented.
type cbContext struct {
	tele.Context
	cb       *tele.Callback
	sender   *tele.User
	store    map[string]any
	responds int
}

func newCBContext(unique string) *cbContext {
	return &cbContext{
		cb:     &tele.Callback{Unique: unique},
		sender: &tele.User{ID: 1},
		store:  make(map[string]any),
	}
}

func (c *cbContext) Callback() *tele.Callback { return c.cb }

func (c *cbContext) Sender() *tele.User { return c.sender }

func (c *cbContext) Chat() *tele.Chat { return nil }

func (c *cbContext) Update() tele.Update { return tele.Update{} }

func (c *cbContext) Get(key string) any { return c.store[key] }

func (c *cbContext) Set(key string, v any) { c.store[key] = v }

func (c *cbContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responds++
	return nil
}

func TestCallbackHandlerAnswerOwnership(t *testing.T) {
	reg := coretele.NewRegistry()

	var alerts, plains int
	if err := reg.RegisterCallback("keep_channel", coretele.Callback{
		AnswersQuery: true,
		Handler: func(c tele.Context) error {
			alerts++
			return c.Respond(&tele.CallbackResponse{Text: "оставляем", ShowAlert: true})
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("plain_action", coretele.Callback{
		Handler: func(tele.Context) error { plains++; return nil },
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	handler := CallbackHandler(reg)

	// A handler that shows an alert must own the single allowed answer;
	// the router must not have consumed it first.
	c := newCBContext("keep_channel")
	if err := handler(c); err != nil {
		t.Fatalf("keep_channel: %v", err)
	}
	if alerts != 1 {
		t.Fatalf("expected alert handler to run once, ran %d times", alerts)
	}
	if c.responds != 1 {
		t.Errorf("expected exactly one answer from the handler, got %d", c.responds)
	}

	// A plain handler gets the router's empty acknowledgement.
	c = newCBContext("plain_action")
	if err := handler(c); err != nil {
		t.Fatalf("plain_action: %v", err)
	}
	if plains != 1 {
		t.Fatalf("expected plain handler to run once, ran %d times", plains)
	}
	if c.responds != 1 {
		t.Errorf("expected exactly one router answer, got %d", c.responds)
	}

	// Unknown keys are answered by the not-found handler alone.
	c = newCBContext("stale_button")
	if err := handler(c); err != nil {
		t.Fatalf("stale_button: %v", err)
	}
	if c.responds != 1 {
		t.Errorf("expected exactly one not-found answer, got %d", c.responds)
	}
}
