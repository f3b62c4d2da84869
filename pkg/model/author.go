package model

import "time"

// Author is a registered writer. Authors own blogs and write posts.
type Author struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordDigest []byte    `gorm:"column:password_digest;type:bytea"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Author) TableName() string {
	return "authors"
}
