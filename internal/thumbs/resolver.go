package thumbs

import (
	"context"
	"errors"
)

// Resolver adapts a Store to delivery-time lookups, where a missing
// thumbnail is not an error: delivery simply proceeds without one.
type Resolver struct {
	Store Store
}

// Resolve returns the user's thumbnail reference, or "" when none is stored.
func (r Resolver) Resolve(ctx context.Context, userID int64) (string, error) {
	if r.Store == nil {
		return "", nil
	}
	ref, err := r.Store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ref, nil
}
