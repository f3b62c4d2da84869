// Package store provides storage abstractions for the Inkwell server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database
// implementation. This enables easier testing with mocks and keeps the
// optimistic-concurrency contract in one place.
//
// # Available Stores
//
//   - AuthorsStore: authors, passwords, API keys
//   - BlogsStore: blog CRUD with optimistic locking
//   - PostsStore: post CRUD, listing/filtering, publishing
//   - TagsStore: tag upserts and lookups
//   - CommentsStore: comments
//   - RevisionsStore: temporal history reads
//   - HealthStore: connectivity checks
//
// # Usage
//
//	blogs := gorm.NewBlogsStore(db)
//	blog, err := blogs.GetBlogBySlug("engineering", false)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
//
// # Concurrency
//
// Blogs and posts carry a lock_version. Conditional writes compare it in
// the WHERE clause and bump it on success; a mismatch is ErrStaleVersion.
// There is no last-writer-wins path.
package store
