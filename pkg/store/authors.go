package store

import "time"

// AuthorsStore abstracts author and credential operations.
type AuthorsStore interface {
	// CreateAuthor creates an author. Returns ErrDuplicate if the email is
	// taken. The generated ID is set on the passed struct.
	CreateAuthor(author *Author) error

	// GetAuthorByEmail returns ErrNotFound when no author has the email.
	GetAuthorByEmail(email string) (*Author, error)

	// GetAuthorByID returns ErrNotFound when the id doesn't exist.
	GetAuthorByID(id int64) (*Author, error)

	// SetPasswordDigest replaces the author's bcrypt digest.
	SetPasswordDigest(id int64, digest []byte) error

	// SetAPIKey stores a new API key (encrypted at rest) and stamps the
	// rotation time. Returns ErrCipherMissing without a session cipher.
	SetAPIKey(authorID int64, key []byte, rotatedAt time.Time) error

	// GetAPIKey returns the decrypted API key, ErrNotFound when the author
	// has none.
	GetAPIKey(authorID int64) ([]byte, error)
}
