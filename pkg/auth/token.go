package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell-sh/inkwell/pkg/identity"
)

// ErrBadToken is returned for tokens that fail to parse or validate.
var ErrBadToken = errors.New("invalid token")

// Claims are the JWT claims Inkwell issues. Subject carries the author id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
}

// NewTokenIssuer creates an issuer from a signing key and token lifetime.
func NewTokenIssuer(key []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) < 32 {
		return nil, errors.New("token signing key must be at least 32 bytes")
	}
	return &TokenIssuer{key: key, ttl: ttl}, nil
}

// DeriveTokenKey derives a signing key from the data key so deployments
// without INKWELL_TOKEN_KEY still get a stable one. The derivation is one
// way; the data key never signs anything directly.
func DeriveTokenKey(dataKey []byte) []byte {
	sum := sha256.Sum256(append([]byte("inkwell-token-v1:"), dataKey...))
	return sum[:]
}

// Issue mints a signed token for the author.
func (i *TokenIssuer) Issue(authorID int64, email, name string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", authorID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Verify parses a token and returns the identity it carries.
func (i *TokenIssuer) Verify(tokenString string) (*identity.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}

	var authorID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &authorID); err != nil || authorID <= 0 {
		return nil, ErrBadToken
	}

	id := &identity.Identity{
		AuthorID: authorID,
		Email:    claims.Email,
		Name:     claims.Name,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
