package credential

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no credential is stored for a user.
var ErrNotFound = errors.New("credential: not found")

// Key returns the store key for a user's access token. It is derived only
// from the provider-assigned id, so re-authentication by the same account
// always lands on the same record.
func Key(externalID string) string {
	return "user:" + externalID + ":accessToken"
}

// Store holds at most one access token per external id. Writes are
// last-write-wins and carry no expiry.
type Store interface {
	Set(ctx context.Context, externalID, token string) error
	Get(ctx context.Context, externalID string) (string, error)
}
