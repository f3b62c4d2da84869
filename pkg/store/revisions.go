package store

import (
	"time"

	"github.com/inkwell-sh/inkwell/pkg/query"
)

// RevisionsStore abstracts reads over the append-only post history. Writes
// happen through the history plugin's callbacks, never here.
type RevisionsStore interface {
	// ListRevisions returns one page of a post's revisions, newest first,
	// plus the total.
	ListRevisions(postID int64, page query.Page) ([]Revision, int64, error)

	// GetRevision fetches one numbered revision. ErrNotFound for unknown
	// numbers.
	GetRevision(postID int64, revision int) (*Revision, error)

	// RevisionAt returns the revision whose validity interval contains t,
	// ErrNotFound when t precedes the first revision.
	RevisionAt(postID int64, t time.Time) (*Revision, error)
}
