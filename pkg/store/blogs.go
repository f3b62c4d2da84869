package store

import "github.com/inkwell-sh/inkwell/pkg/query"

// BlogsStore abstracts blog storage operations.
//
// Updates are optimistic-only: every write carries the lock_version the
// caller read, and a mismatch is ErrStaleVersion, never a silent overwrite.
type BlogsStore interface {
	// CreateBlog creates a blog; ErrDuplicate on a taken slug. The
	// generated ID and initial LockVersion are set on the passed struct.
	CreateBlog(blog *Blog) error

	// GetBlogBySlug returns ErrNotFound for missing or soft-deleted blogs
	// unless withDeleted is set.
	GetBlogBySlug(slug string, withDeleted bool) (*Blog, error)

	// GetBlogByID returns ErrNotFound when the id doesn't exist.
	GetBlogByID(id int64) (*Blog, error)

	// ListBlogs returns one page plus the filtered total. Soft-deleted
	// blogs are never listed.
	ListBlogs(page query.Page, sort query.Sort) ([]Blog, int64, error)

	// UpdateBlog applies the field map to the blog iff version matches the
	// stored lock_version, bumping it by one. Zero rows hit: stale if the
	// blog exists, otherwise ErrNotFound. Returns the updated record.
	UpdateBlog(id int64, version int, fields map[string]interface{}) (*Blog, error)

	// SoftDeleteBlog marks the blog deleted. ErrNotFound if missing.
	SoftDeleteBlog(id int64) error

	// HardDeleteBlog permanently removes a soft-deleted blog. Retention
	// only; cascades to its posts.
	HardDeleteBlog(id int64) error
}
