package store

// TagsStore abstracts tag storage operations.
type TagsStore interface {
	// EnsureTags upserts tags by normalized name and returns the full
	// records, existing or created, in input order.
	EnsureTags(names []string) ([]Tag, error)

	// ListTags returns all tags ordered by name.
	ListTags() ([]Tag, error)

	// GetTagByName returns ErrNotFound for unknown names. The name is
	// normalized before lookup.
	GetTagByName(name string) (*Tag, error)
}
