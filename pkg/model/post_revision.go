package model

import "time"

// PostRevision is an append-only snapshot of a post at one point in time.
// Revisions number from 1 per post. ValidTo is NULL on the current revision;
// closing it when the next snapshot lands gives each row a [ValidFrom,
// ValidTo) interval, which is what the as-of queries walk.
type PostRevision struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	PostID    int64      `gorm:"column:post_id;not null;uniqueIndex:idx_post_revisions_post_rev"`
	Revision  int        `gorm:"column:revision;not null;uniqueIndex:idx_post_revisions_post_rev"`
	Title     string     `gorm:"column:title"`
	Content   string     `gorm:"column:content;type:text"`
	Status    Status     `gorm:"column:status;type:text;not null"`
	EditorID  *int64     `gorm:"column:editor_id"`
	Action    string     `gorm:"column:action;not null"`
	ValidFrom time.Time  `gorm:"column:valid_from;not null"`
	ValidTo   *time.Time `gorm:"column:valid_to"`
}

// Revision actions.
const (
	RevisionActionCreate  = "create"
	RevisionActionUpdate  = "update"
	RevisionActionDelete  = "delete"
	RevisionActionRestore = "restore"
)

func (PostRevision) TableName() string {
	return "post_revisions"
}
