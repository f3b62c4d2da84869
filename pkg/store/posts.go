package store

import (
	"time"

	"github.com/inkwell-sh/inkwell/pkg/query"
)

// PostFilter narrows a post listing. All fields are typed and bound as
// parameters; there is no raw predicate input.
type PostFilter struct {
	BlogID          int64
	AuthorID        int64
	Status          string
	Tag             string
	TitleQuery      string
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
}

// ListPostsOptions selects filter, ordering and one of the two paging
// modes. A non-empty Cursor switches to keyset paging and ignores Page.
type ListPostsOptions struct {
	Filter      PostFilter
	Sort        query.Sort
	Page        query.Page
	Cursor      string
	WithDeleted bool
}

// PostPage is one page of posts. Total is filled for offset paging;
// NextCursor for keyset paging (empty when the listing is exhausted).
type PostPage struct {
	Items      []Post
	Total      int64
	NextCursor string
}

// PostsStore abstracts post storage operations.
type PostsStore interface {
	// CreatePost creates a post and attaches the named tags (created as
	// needed) in one transaction. ErrDuplicate on a slug collision within
	// the blog.
	CreatePost(post *Post, tags []string) error

	// GetPost fetches one post by blog and slug, tags loaded.
	// ErrNotFound covers missing and soft-deleted posts.
	GetPost(blogID int64, slug string) (*Post, error)

	// GetPostByID returns ErrNotFound when the id doesn't exist.
	GetPostByID(id int64) (*Post, error)

	// ListPosts lists posts per opts. See ListPostsOptions for paging
	// semantics. Soft-deleted posts are excluded unless WithDeleted.
	ListPosts(opts ListPostsOptions) (*PostPage, error)

	// UpdatePost applies the field map iff version matches, bumping
	// lock_version. Stale/missing follow UpdateBlog's contract. When tags
	// is non-nil the post's tag set is replaced in the same transaction.
	UpdatePost(id int64, version int, fields map[string]interface{}, tags []string) (*Post, error)

	// PublishPost flips the post to published with the given timestamp,
	// under the same version check as UpdatePost.
	PublishPost(id int64, version int, at time.Time) (*Post, error)

	// SoftDeletePost marks the post deleted. ErrNotFound if missing.
	SoftDeletePost(id int64) error

	// HardDeletePost permanently removes a post. Retention only.
	HardDeletePost(id int64) error
}
