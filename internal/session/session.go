// Package session tracks who is logged in. Identities live in a server-side
// store keyed by a random id; clients hold a signed token naming that id.
package session

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("no session")

// Identity is the authenticated user behind a request.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request's identity; ok is false for anonymous requests.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
