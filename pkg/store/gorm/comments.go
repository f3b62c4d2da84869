package gorm

import (
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure CommentsStore implements store.CommentsStore
var _ store.CommentsStore = (*CommentsStore)(nil)

// CommentsStore implements store.CommentsStore using GORM
type CommentsStore struct {
	db *gorm.DB
}

// NewCommentsStore creates a new CommentsStore
func NewCommentsStore(db *gorm.DB) *CommentsStore {
	return &CommentsStore{db: db}
}

// CreateComment creates a comment on a live post.
func (s *CommentsStore) CreateComment(comment *store.Comment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
			return mapError(err)
		}
		if count == 0 {
			return store.ErrNotFound
		}

		m := model.Comment{
			PostID:     comment.PostID,
			AuthorName: comment.AuthorName,
			Body:       comment.Body,
		}
		if err := tx.Create(&m).Error; err != nil {
			return mapError(err)
		}
		comment.ID = m.ID
		comment.CreatedAt = m.CreatedAt
		return nil
	})
}

// ListComments returns one page of a post's comments, oldest first.
func (s *CommentsStore) ListComments(postID int64, page query.Page) ([]store.Comment, int64, error) {
	var total int64
	err := s.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&total).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	var rows []model.Comment
	err = s.db.Where("post_id = ?", postID).
		Scopes(query.OrderBy("created_at", false), query.Paginate(page)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	comments := make([]store.Comment, len(rows))
	for i, row := range rows {
		comments[i] = store.Comment{
			ID:         row.ID,
			PostID:     row.PostID,
			AuthorName: row.AuthorName,
			Body:       row.Body,
			CreatedAt:  row.CreatedAt,
		}
	}
	return comments, total, nil
}
