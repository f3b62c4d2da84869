package model

import "time"

// Comment is a public note on a post. Comments have no account behind them,
// just a display name.
type Comment struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	PostID     int64     `gorm:"column:post_id;not null;index"`
	AuthorName string    `gorm:"column:author_name"`
	Body       string    `gorm:"column:body;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
