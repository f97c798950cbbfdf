// Package thumbs persists per-user thumbnail references. A user sends a
// photo once; every later rename delivery attaches it until the user
// deletes it.
package thumbs

import (
	"context"
	"errors"
)

// ErrNotFound indicates the user has no stored thumbnail. Callers treat it
// as a normal condition, not a failure.
var ErrNotFound = errors.New("thumbs: not found")

// Store maps a user id to a platform-native image reference.
type Store interface {
	Set(ctx context.Context, userID int64, fileRef string) error
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) error
}
