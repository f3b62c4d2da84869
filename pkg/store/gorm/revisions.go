package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure RevisionsStore implements store.RevisionsStore
var _ store.RevisionsStore = (*RevisionsStore)(nil)

// RevisionsStore implements store.RevisionsStore using GORM
type RevisionsStore struct {
	db *gorm.DB
}

// NewRevisionsStore creates a new RevisionsStore
func NewRevisionsStore(db *gorm.DB) *RevisionsStore {
	return &RevisionsStore{db: db}
}

func toStoreRevision(r *model.PostRevision) *store.Revision {
	return &store.Revision{
		ID:        r.ID,
		PostID:    r.PostID,
		Revision:  r.Revision,
		Title:     r.Title,
		Content:   r.Content,
		Status:    r.Status.String(),
		EditorID:  r.EditorID,
		Action:    r.Action,
		ValidFrom: r.ValidFrom,
		ValidTo:   r.ValidTo,
	}
}

// ListRevisions returns one page of a post's revisions, newest first.
func (s *RevisionsStore) ListRevisions(postID int64, page query.Page) ([]store.Revision, int64, error) {
	var total int64
	err := s.db.Model(&model.PostRevision{}).Where("post_id = ?", postID).Count(&total).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	var rows []model.PostRevision
	err = s.db.Where("post_id = ?", postID).
		Scopes(query.OrderBy("revision", true), query.Paginate(page)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	revisions := make([]store.Revision, len(rows))
	for i := range rows {
		revisions[i] = *toStoreRevision(&rows[i])
	}
	return revisions, total, nil
}

// GetRevision fetches one numbered revision.
func (s *RevisionsStore) GetRevision(postID int64, revision int) (*store.Revision, error) {
	var row model.PostRevision
	err := s.db.Where("post_id = ? AND revision = ?", postID, revision).First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	return toStoreRevision(&row), nil
}

// RevisionAt returns the revision whose [valid_from, valid_to) interval
// contains t. The open interval on the current revision matches with a
// NULL valid_to.
func (s *RevisionsStore) RevisionAt(postID int64, t time.Time) (*store.Revision, error) {
	var row model.PostRevision
	err := s.db.
		Where("post_id = ? AND valid_from <= ? AND (valid_to IS NULL OR valid_to > ?)", postID, t, t).
		Order("revision DESC").
		First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	return toStoreRevision(&row), nil
}
