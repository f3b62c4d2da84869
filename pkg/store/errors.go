package store

import "errors"

// ErrNotFound is returned when the requested record doesn't exist
// (or is soft-deleted and deleted rows weren't asked for).
var ErrNotFound = errors.New("record not found")

// ErrStaleVersion is returned when a conditional update matched the row by
// id but not by lock_version: someone else wrote first. The caller should
// re-read and retry.
var ErrStaleVersion = errors.New("record version is stale")

// ErrDuplicate is returned when a create or update violates a unique
// constraint (slug, email, tag name).
var ErrDuplicate = errors.New("record already exists")

// ErrCipherMissing is returned when an operation needs the data-key cipher
// but none is bound into the session.
var ErrCipherMissing = errors.New("no cipher in session")

// ErrBadField is returned when an update carries a field value that fails
// validation (for example a blog rating outside 0..5).
var ErrBadField = errors.New("invalid field value")
