// Package storage provides the persistence layer: the single settings row
// and the user registry, both backed by the embedded SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"channelbot/core/logger"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Settings is the single configuration row. Nullable columns map to
// pointers; a nil pointer means "not configured yet".
type Settings struct {
	ID                 int64   `db:"id"`
	ChannelID          *int64  `db:"channel_id"`
	StartMessage       *string `db:"start_message"`
	WelcomeText        *string `db:"welcome_text"`
	WelcomePhotoID     *string `db:"welcome_photo_id"`
	GoodbyeText        *string `db:"goodbye_text"`
	GoodbyePhotoID     *string `db:"goodbye_photo_id"`
	AutoApproveEnabled bool    `db:"auto_approve_enabled"`
	PostPhotoID        *string `db:"post_photo_id"`
	PostText           *string `db:"post_text"`
	PostButtonText     *string `db:"post_button_text"`
	PostButtonURL      *string `db:"post_button_url"`
}

// HasChannel reports whether a channel has been linked.
func (s *Settings) HasChannel() bool {
	return s != nil && s.ChannelID != nil
}

// HasWelcome reports whether a welcome message is configured.
func (s *Settings) HasWelcome() bool {
	return s != nil && (s.WelcomeText != nil || s.WelcomePhotoID != nil)
}

// HasGoodbye reports whether a goodbye message is configured.
func (s *Settings) HasGoodbye() bool {
	return s != nil && (s.GoodbyeText != nil || s.GoodbyePhotoID != nil)
}

// PostPublishable reports whether the stored draft can be sent: a body
// (text or photo), a button, and a linked channel are all required.
func (s *Settings) PostPublishable() bool {
	if s == nil || !s.HasChannel() {
		return false
	}
	hasBody := s.PostText != nil || s.PostPhotoID != nil
	return hasBody && s.PostButtonText != nil && s.PostButtonURL != nil
}

// SettingsStore reads and updates the settings row.
type SettingsStore struct {
	db *sqlx.DB
}

// NewSettingsStore creates a SettingsStore on top of an open connection.
func NewSettingsStore(db *sqlx.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Read returns the settings row. The row is seeded by the initial
// migration; should it still be absent, an all-unset row is returned so
// callers see "unconfigured" rather than an error.
func (s *SettingsStore) Read(ctx context.Context) (*Settings, error) {
	var row Settings
	err := s.db.GetContext(ctx, &row, `SELECT * FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return &Settings{ID: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read: %w", err)
	}
	return &row, nil
}

// SetChannelID links the managed channel.
func (s *SettingsStore) SetChannelID(ctx context.Context, channelID int64) error {
	return s.update(ctx, "channel",
		`UPDATE settings SET channel_id = ? WHERE id = 1`, channelID)
}

// SetStartMessage stores the /start reply text.
func (s *SettingsStore) SetStartMessage(ctx context.Context, text string) error {
	return s.update(ctx, "start_message",
		`UPDATE settings SET start_message = ? WHERE id = 1`, text)
}

// SetWelcome stores the welcome message. Exactly one of text or photoID may
// be empty; empty strings are persisted as NULL.
func (s *SettingsStore) SetWelcome(ctx context.Context, text, photoID string) error {
	return s.update(ctx, "welcome",
		`UPDATE settings SET welcome_text = ?, welcome_photo_id = ? WHERE id = 1`,
		nullable(text), nullable(photoID))
}

// SetGoodbye stores the goodbye message.
func (s *SettingsStore) SetGoodbye(ctx context.Context, text, photoID string) error {
	return s.update(ctx, "goodbye",
		`UPDATE settings SET goodbye_text = ?, goodbye_photo_id = ? WHERE id = 1`,
		nullable(text), nullable(photoID))
}

// SetAutoApprove flips the join-request auto approval flag.
func (s *SettingsStore) SetAutoApprove(ctx context.Context, enabled bool) error {
	return s.update(ctx, "auto_approve",
		`UPDATE settings SET auto_approve_enabled = ? WHERE id = 1`, enabled)
}

// SetPost stores the current post draft so the confirm step can publish it.
func (s *SettingsStore) SetPost(ctx context.Context, photoID, text, buttonText, buttonURL string) error {
	return s.update(ctx, "post",
		`UPDATE settings SET post_photo_id = ?, post_text = ?, post_button_text = ?, post_button_url = ? WHERE id = 1`,
		nullable(photoID), nullable(text), nullable(buttonText), nullable(buttonURL))
}

func (s *SettingsStore) update(ctx context.Context, field, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.LogEvent(ctx, logger.DB, slog.LevelError, "settings.update_failed",
			slog.String("field", field),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("settings: update %s: %w", field, err)
	}
	logger.LogEvent(ctx, logger.DB, slog.LevelDebug, "settings.updated",
		slog.String("field", field),
	)
	return nil
}

// StringOrEmpty dereferences an optional text column.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
