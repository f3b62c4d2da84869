package seal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoCipher is returned when an encrypted column is read or written
// through a session with no cipher bound to its context.
var ErrNoCipher = errors.New("no cipher in session")

type contextKey string

// cipherKey is the context key the cipher rides under. Model hooks read it
// off the GORM statement context so encrypted columns round-trip without the
// stores knowing about encryption at all.
const cipherKey contextKey = "cipher"

// WithCipher returns a context carrying the cipher.
func WithCipher(ctx context.Context, cipher SymmetricCipher) context.Context {
	return context.WithValue(ctx, cipherKey, cipher)
}

// CipherFrom extracts the cipher from a context. The second return is false
// when no cipher was bound.
func CipherFrom(ctx context.Context) (SymmetricCipher, bool) {
	cipher, ok := ctx.Value(cipherKey).(SymmetricCipher)
	return cipher, ok
}

// CipherForDB extracts the cipher from a GORM statement context.
func CipherForDB(tx *gorm.DB) (SymmetricCipher, bool) {
	return CipherFrom(tx.Statement.Context)
}
