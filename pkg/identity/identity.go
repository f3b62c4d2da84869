// Package identity carries the authenticated author through a request's
// context. Middleware resolves credentials into an Identity once; handlers
// and storage callbacks read it from the context.
package identity

import (
	"context"
	"time"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated author attached to a request.
type Identity struct {
	AuthorID  int64
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RemoteIP  string
}

// NewContext returns a context carrying the identity.
func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity from a context. The second return is
// false for unauthenticated requests.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}
