package store

import "time"

// Author is the storage-neutral author record. PasswordDigest is a bcrypt
// digest; APIKey never appears here (see AuthorsStore key operations).
type Author struct {
	ID             int64
	Name           string
	Email          string
	PasswordDigest []byte
	CreatedAt      time.Time
}

// Blog is the storage-neutral blog record.
type Blog struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Rating      int
	OwnerID     int64
	LockVersion int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Post is the storage-neutral post record. Status is the enum's string
// form (draft, published, archived).
type Post struct {
	ID          int64
	BlogID      int64
	AuthorID    int64
	Title       string
	Slug        string
	Content     string
	Status      string
	PublishedAt *time.Time
	LockVersion int
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Tag is the storage-neutral tag record.
type Tag struct {
	ID   int64
	Name string
}

// Comment is the storage-neutral comment record.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// Revision is one temporal snapshot of a post.
type Revision struct {
	ID        int64
	PostID    int64
	Revision  int
	Title     string
	Content   string
	Status    string
	EditorID  *int64
	Action    string
	ValidFrom time.Time
	ValidTo   *time.Time
}
