package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post is a Markdown article inside a blog. The slug is unique per blog,
// not globally. Content is always the Markdown source; rendering happens
// at the edge.
type Post struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	BlogID      int64          `gorm:"column:blog_id;not null;uniqueIndex:idx_posts_blog_slug"`
	AuthorID    int64          `gorm:"column:author_id;not null"`
	Title       string         `gorm:"column:title;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex:idx_posts_blog_slug"`
	Content     string         `gorm:"column:content;type:text"`
	Status      Status         `gorm:"column:status;type:text;not null"`
	PublishedAt *time.Time     `gorm:"column:published_at"`
	LockVersion int            `gorm:"column:lock_version;not null;default:1"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Author   *Author   `gorm:"foreignKey:AuthorID"`
	Tags     []Tag     `gorm:"many2many:post_tags"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	if p.Slug == "" {
		return fmt.Errorf("post %q has no usable slug", p.Title)
	}

	if !p.Status.IsAStatus() {
		return fmt.Errorf("invalid post status: %d", int(p.Status))
	}

	// Published posts always carry a publication time.
	if p.Status == StatusPublished && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.LockVersion == 0 {
		p.LockVersion = 1
	}
	return nil
}
