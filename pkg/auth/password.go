package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for any credential mismatch. Callers never
// learn whether the account or the secret was wrong.
var ErrBadCredentials = errors.New("invalid credentials")

// bcryptCost stays at the library default; raise it here if hardware
// catches up.
const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt digest for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
}

// CheckPassword compares a candidate password against a stored digest.
func CheckPassword(digest []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(digest, []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
