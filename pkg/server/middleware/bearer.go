package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/identity"
)

// BearerAuthenticator is middleware that validates bearer access tokens
// and attaches the caller's identity to the request context.
type BearerAuthenticator struct {
	Tokens *auth.TokenIssuer
}

// NewBearerAuthenticator creates a new bearer token middleware
func NewBearerAuthenticator(tokens *auth.TokenIssuer) *BearerAuthenticator {
	return &BearerAuthenticator{Tokens: tokens}
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		id, err := b.Tokens.Verify(token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid token"))
			return
		}

		if !id.ExpiresAt.IsZero() && id.ExpiresAt.Before(time.Now()) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Token expired"))
			return
		}

		id.RemoteIP = RemoteIP(r)
		r = r.WithContext(identity.NewContext(r.Context(), id))

		next.ServeHTTP(w, r)
	})
}
