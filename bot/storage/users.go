package storage

import (
	"context"
	"fmt"

	"channelbot/core/logger"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// UserStore tracks known users and their admin flag. It backs the access
// checks on the admin panel, so lookups must be cheap.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a UserStore on top of an open connection.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// EnsureExists records a user the first time they talk to the bot. The
// admin flag of an already known user is left untouched.
func (u *UserStore) EnsureExists(ctx context.Context, userID int64) error {
	_, err := u.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("users: ensure %d: %w", userID, err)
	}
	return nil
}

// IsAdmin reports whether the user carries the admin flag. Unknown users
// are not admins.
func (u *UserStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var isAdmin bool
	err := u.db.GetContext(ctx, &isAdmin,
		`SELECT COALESCE((SELECT is_admin FROM users WHERE user_id = ?), 0)`, userID)
	if err != nil {
		return false, fmt.Errorf("users: is_admin %d: %w", userID, err)
	}
	return isAdmin, nil
}

// Promote grants the admin flag, creating the row if the user has never
// interacted with the bot.
func (u *UserStore) Promote(ctx context.Context, userID int64) error {
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (user_id, is_admin) VALUES (?, 1)
		 ON CONFLICT (user_id) DO UPDATE SET is_admin = 1`, userID)
	if err != nil {
		logger.LogEvent(ctx, logger.DB, slog.LevelError, "users.promote_failed",
			slog.Int64("target_id", userID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("users: promote %d: %w", userID, err)
	}
	logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "users.promoted",
		slog.Int64("target_id", userID),
	)
	return nil
}
