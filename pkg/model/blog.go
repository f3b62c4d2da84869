package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Blog is a publication owned by an author. Concurrent updates are guarded
// by LockVersion; see the stores for the version-checked UPDATE shape.
type Blog struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;uniqueIndex;not null"`
	Description string         `gorm:"column:description"`
	Rating      int            `gorm:"column:rating"`
	OwnerID     int64          `gorm:"column:owner_id;not null"`
	LockVersion int            `gorm:"column:lock_version;not null;default:1"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Owner *Author `gorm:"foreignKey:OwnerID"`
	Posts []Post  `gorm:"foreignKey:BlogID"`
}

func (Blog) TableName() string {
	return "blogs"
}

func (b *Blog) BeforeSave(tx *gorm.DB) error {
	if b.Slug == "" {
		b.Slug = Slugify(b.Name)
	} else {
		b.Slug = Slugify(b.Slug)
	}
	if b.Slug == "" {
		return fmt.Errorf("blog %q has no usable slug", b.Name)
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("blog rating must be 0..5, got %d", b.Rating)
	}
	return nil
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.LockVersion == 0 {
		b.LockVersion = 1
	}
	return nil
}
