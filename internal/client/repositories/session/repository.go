// Package session persists the CLI's login state (token, email, expiry) in
// a local key/value table, the terminal counterpart of browser storage.
package session

import "context"

const (
	KeyToken     = "token"
	KeyEmail     = "email"
	KeyUserID    = "user_id"
	KeyExpiresAt = "expires_at"
)

// Repository is a small string key/value store. Get on an absent key
// returns common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
