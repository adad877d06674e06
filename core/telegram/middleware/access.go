package middleware

import (
	"context"
)

// AdminChecker resolves whether a user id carries the admin flag.
// The user registry implements it; unknown users are not admins. The
// router consults it per menu action, so rejection behaviour can differ
// between the panel entry and nested actions.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}
