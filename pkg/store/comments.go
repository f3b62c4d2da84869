package store

import "github.com/inkwell-sh/inkwell/pkg/query"

// CommentsStore abstracts comment storage operations.
type CommentsStore interface {
	// CreateComment creates a comment on a post. The generated ID is set
	// on the passed struct.
	CreateComment(comment *Comment) error

	// ListComments returns one page of a post's comments, oldest first,
	// plus the total.
	ListComments(postID int64, page query.Page) ([]Comment, int64, error)
}
