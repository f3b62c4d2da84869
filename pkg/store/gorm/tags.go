package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure TagsStore implements store.TagsStore
var _ store.TagsStore = (*TagsStore)(nil)

// TagsStore implements store.TagsStore using GORM
type TagsStore struct {
	db *gorm.DB
}

// NewTagsStore creates a new TagsStore
func NewTagsStore(db *gorm.DB) *TagsStore {
	return &TagsStore{db: db}
}

// EnsureTags upserts tags by normalized name, returning the full records
// in input order.
func (s *TagsStore) EnsureTags(names []string) ([]store.Tag, error) {
	var rows []model.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rows, err = ensureTagRows(tx, names)
		return err
	})
	if err != nil {
		return nil, err
	}

	tags := make([]store.Tag, len(rows))
	for i, row := range rows {
		tags[i] = store.Tag{ID: row.ID, Name: row.Name}
	}
	return tags, nil
}

// ListTags returns all tags ordered by name.
func (s *TagsStore) ListTags() ([]store.Tag, error) {
	var rows []model.Tag
	if err := s.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	tags := make([]store.Tag, len(rows))
	for i, row := range rows {
		tags[i] = store.Tag{ID: row.ID, Name: row.Name}
	}
	return tags, nil
}

// GetTagByName retrieves a tag by normalized name.
func (s *TagsStore) GetTagByName(name string) (*store.Tag, error) {
	var row model.Tag
	err := s.db.Where("name = ?", model.NormalizeTag(name)).First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &store.Tag{ID: row.ID, Name: row.Name}, nil
}

// ensureTagRows upserts tag rows by normalized name inside the caller's
// transaction. ON CONFLICT DO NOTHING keeps concurrent writers from racing
// on the unique name index; the follow-up read picks up whichever writer
// won.
func ensureTagRows(tx *gorm.DB, names []string) ([]model.Tag, error) {
	normalized := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n := model.NormalizeTag(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	inserts := make([]model.Tag, len(normalized))
	for i, n := range normalized {
		inserts[i] = model.Tag{Name: n}
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&inserts).Error
	if err != nil {
		return nil, mapError(err)
	}

	var rows []model.Tag
	if err := tx.Where("name IN ?", normalized).Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}

	byName := make(map[string]model.Tag, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}
	ordered := make([]model.Tag, 0, len(normalized))
	for _, n := range normalized {
		if row, ok := byName[n]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}
