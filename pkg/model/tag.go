package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Tag is a label shared across posts. Names are normalized to lowercase so
// "Go" and "go" are the same tag.
type Tag struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// NormalizeTag lowercases and trims a tag name.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.Name = NormalizeTag(t.Name)
	if t.Name == "" {
		return fmt.Errorf("tag name must not be empty")
	}
	return nil
}
