package storage

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../migrations/0001_init.up.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func TestSettingsSeededRow(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))
	ctx := context.Background()

	s, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.HasChannel() {
		t.Fatal("fresh row must have no channel")
	}
	if s.AutoApproveEnabled {
		t.Fatal("auto approve must default to off")
	}
	if s.StartMessage != nil {
		t.Fatalf("start message must default to NULL, got %q", *s.StartMessage)
	}
}

func TestSettingsChannelAndStartMessage(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))
	ctx := context.Background()

	if err := store.SetChannelID(ctx, -1001234567890); err != nil {
		t.Fatalf("set channel: %v", err)
	}
	if err := store.SetStartMessage(ctx, "Привет!"); err != nil {
		t.Fatalf("set start message: %v", err)
	}

	s, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !s.HasChannel() || *s.ChannelID != -1001234567890 {
		t.Fatalf("channel not persisted: %+v", s.ChannelID)
	}
	if s.StartMessage == nil || *s.StartMessage != "Привет!" {
		t.Fatalf("start message not persisted: %+v", s.StartMessage)
	}
}

func TestSettingsWelcomeReplacesBothColumns(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))
	ctx := context.Background()

	if err := store.SetWelcome(ctx, "", "photo-1"); err != nil {
		t.Fatalf("set welcome photo: %v", err)
	}
	s, _ := store.Read(ctx)
	if s.WelcomeText != nil || s.WelcomePhotoID == nil {
		t.Fatalf("expected photo-only welcome, got text=%v photo=%v", s.WelcomeText, s.WelcomePhotoID)
	}

	// A later text-only welcome must clear the stale photo.
	if err := store.SetWelcome(ctx, "Hi {user}!", ""); err != nil {
		t.Fatalf("set welcome text: %v", err)
	}
	s, _ = store.Read(ctx)
	if s.WelcomeText == nil || *s.WelcomeText != "Hi {user}!" {
		t.Fatalf("welcome text not persisted: %+v", s.WelcomeText)
	}
	if s.WelcomePhotoID != nil {
		t.Fatalf("stale welcome photo kept: %q", *s.WelcomePhotoID)
	}
	if !s.HasWelcome() {
		t.Fatal("HasWelcome must be true once configured")
	}
}

func TestSettingsAutoApproveToggle(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))
	ctx := context.Background()

	for _, want := range []bool{true, false, true} {
		if err := store.SetAutoApprove(ctx, want); err != nil {
			t.Fatalf("set auto approve: %v", err)
		}
		s, err := store.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if s.AutoApproveEnabled != want {
			t.Fatalf("auto approve = %v, want %v", s.AutoApproveEnabled, want)
		}
	}
}

func TestSettingsPostDraft(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))
	ctx := context.Background()

	if err := store.SetPost(ctx, "file-42", "Big news", "Open", "https://example.com"); err != nil {
		t.Fatalf("set post: %v", err)
	}
	s, _ := store.Read(ctx)
	if s.PostPhotoID == nil || *s.PostPhotoID != "file-42" {
		t.Fatalf("post photo not persisted: %+v", s.PostPhotoID)
	}
	if s.PostButtonURL == nil || *s.PostButtonURL != "https://example.com" {
		t.Fatalf("post button url not persisted: %+v", s.PostButtonURL)
	}

	// A complete draft is publishable only once a channel is linked.
	if s.PostPublishable() {
		t.Fatal("draft without a channel must not be publishable")
	}
	if err := store.SetChannelID(ctx, -100500); err != nil {
		t.Fatalf("set channel: %v", err)
	}
	s, _ = store.Read(ctx)
	if !s.PostPublishable() {
		t.Fatal("complete draft with a channel must be publishable")
	}
}

func TestUsersLifecycle(t *testing.T) {
	users := NewUserStore(newTestDB(t))
	ctx := context.Background()

	ok, err := users.IsAdmin(ctx, 42)
	if err != nil {
		t.Fatalf("is_admin unknown user: %v", err)
	}
	if ok {
		t.Fatal("unknown user must not be admin")
	}

	if err := users.EnsureExists(ctx, 42); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if ok, _ = users.IsAdmin(ctx, 42); ok {
		t.Fatal("ensure must not grant admin")
	}

	if err := users.Promote(ctx, 42); err != nil {
		t.Fatalf("promote known: %v", err)
	}
	if ok, _ = users.IsAdmin(ctx, 42); !ok {
		t.Fatal("promoted user must be admin")
	}

	// Promote may target a user the bot has never seen.
	if err := users.Promote(ctx, 555666777); err != nil {
		t.Fatalf("promote unknown: %v", err)
	}
	if ok, _ = users.IsAdmin(ctx, 555666777); !ok {
		t.Fatal("directly promoted user must be admin")
	}

	// EnsureExists after promotion must keep the flag.
	if err := users.EnsureExists(ctx, 42); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if ok, _ = users.IsAdmin(ctx, 42); !ok {
		t.Fatal("ensure must not strip admin")
	}
}
