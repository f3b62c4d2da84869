package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// apiKeySize is the raw key length in bytes; keys serialize as hex.
const apiKeySize = 32

// GenerateAPIKey mints a random 256-bit API key in hex form.
func GenerateAPIKey() ([]byte, error) {
	raw := make([]byte, apiKeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	out := make([]byte, hex.EncodedLen(apiKeySize))
	hex.Encode(out, raw)
	return out, nil
}

// CheckAPIKey compares a presented key against the stored one in constant
// time.
func CheckAPIKey(stored, presented []byte) error {
	if len(stored) == 0 || subtle.ConstantTimeCompare(stored, presented) != 1 {
		return ErrBadCredentials
	}
	return nil
}
