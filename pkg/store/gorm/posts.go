package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure PostsStore implements store.PostsStore
var _ store.PostsStore = (*PostsStore)(nil)

// postSortColumns whitelists the sortable post fields.
var postSortColumns = map[string]string{
	"title":        "title",
	"slug":         "slug",
	"status":       "status",
	"published_at": "published_at",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

// PostsStore implements store.PostsStore using GORM
type PostsStore struct {
	db *gorm.DB
}

// NewPostsStore creates a new PostsStore
func NewPostsStore(db *gorm.DB) *PostsStore {
	return &PostsStore{db: db}
}

func toStorePost(p *model.Post) *store.Post {
	out := &store.Post{
		ID:          p.ID,
		BlogID:      p.BlogID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Status:      p.Status.String(),
		PublishedAt: p.PublishedAt,
		LockVersion: p.LockVersion,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		out.DeletedAt = &t
	}
	out.Tags = make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		out.Tags[i] = tag.Name
	}
	return out
}

// CreatePost creates a post with its tags in one transaction.
func (s *PostsStore) CreatePost(post *store.Post, tags []string) error {
	status, err := model.StatusString(post.Status)
	if err != nil {
		return store.ErrBadField
	}

	m := model.Post{
		BlogID:      post.BlogID,
		AuthorID:    post.AuthorID,
		Title:       post.Title,
		Slug:        post.Slug,
		Content:     post.Content,
		Status:      status,
		PublishedAt: post.PublishedAt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(&m).Error; err != nil {
			return mapError(err)
		}
		if len(tags) > 0 {
			tagRows, err := ensureTagRows(tx, tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&m).Association("Tags").Replace(tagRows); err != nil {
				return mapError(err)
			}
			m.Tags = tagRows
		}
		return nil
	})
	if err != nil {
		return err
	}

	*post = *toStorePost(&m)
	return nil
}

// GetPost fetches one post by blog and slug, tags loaded.
func (s *PostsStore) GetPost(blogID int64, slug string) (*store.Post, error) {
	var m model.Post
	err := s.db.Preload("Tags").
		Where("blog_id = ? AND slug = ?", blogID, slug).
		First(&m).Error
	if err != nil {
		return nil, mapError(err)
	}
	return toStorePost(&m), nil
}

// GetPostByID retrieves a post by id, tags loaded.
func (s *PostsStore) GetPostByID(id int64) (*store.Post, error) {
	var m model.Post
	if err := s.db.Preload("Tags").First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	return toStorePost(&m), nil
}

// ListPosts lists posts per opts, in offset or keyset mode.
func (s *PostsStore) ListPosts(opts store.ListPostsOptions) (*store.PostPage, error) {
	base := s.db.Model(&model.Post{})
	if opts.WithDeleted {
		base = base.Unscoped()
	}

	base, err := applyPostFilter(base, opts.Filter)
	if err != nil {
		return nil, err
	}

	if opts.Cursor != "" {
		return s.listKeyset(base, opts)
	}
	return s.listOffset(base, opts)
}

func applyPostFilter(tx *gorm.DB, f store.PostFilter) (*gorm.DB, error) {
	if f.BlogID != 0 {
		tx = tx.Where("posts.blog_id = ?", f.BlogID)
	}
	if f.AuthorID != 0 {
		tx = tx.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.Status != "" {
		status, err := model.StatusString(f.Status)
		if err != nil {
			return nil, store.ErrBadField
		}
		tx = tx.Where("posts.status = ?", status)
	}
	if f.Tag != "" {
		tx = tx.Where(
			"posts.id IN (SELECT post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE tags.name = ?)",
			model.NormalizeTag(f.Tag),
		)
	}
	if f.TitleQuery != "" {
		// LOWER/LIKE rather than ILIKE so the same predicate runs on the
		// SQLite test double.
		pattern := "%" + query.EscapeLike(f.TitleQuery) + "%"
		tx = tx.Where("LOWER(posts.title) LIKE LOWER(?) ESCAPE '\\'", pattern)
	}
	if f.PublishedAfter != nil {
		tx = tx.Where("posts.published_at >= ?", *f.PublishedAfter)
	}
	if f.PublishedBefore != nil {
		tx = tx.Where("posts.published_at < ?", *f.PublishedBefore)
	}
	return tx, nil
}

func (s *PostsStore) listOffset(base *gorm.DB, opts store.ListPostsOptions) (*store.PostPage, error) {
	column, err := opts.Sort.Column(postSortColumns, "created_at")
	if err != nil {
		return nil, err
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var rows []model.Post
	err = base.Session(&gorm.Session{}).
		Preload("Tags").
		Scopes(query.OrderBy(column, opts.Sort.Desc), query.Paginate(opts.Page)).
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}

	page := &store.PostPage{Items: make([]store.Post, len(rows)), Total: total}
	for i := range rows {
		page.Items[i] = *toStorePost(&rows[i])
	}
	return page, nil
}

// listKeyset pages through published posts newest first. The predicate
// compares (published_at, id) against the cursor position, so inserts
// while a client pages never shift the window.
func (s *PostsStore) listKeyset(base *gorm.DB, opts store.ListPostsOptions) (*store.PostPage, error) {
	cursor, err := query.DecodeCursor(opts.Cursor)
	if err != nil {
		return nil, err
	}

	var rows []model.Post
	err = base.Session(&gorm.Session{}).
		Preload("Tags").
		Where("posts.published_at IS NOT NULL").
		Where(
			"posts.published_at < ? OR (posts.published_at = ? AND posts.id < ?)",
			cursor.PublishedAt, cursor.PublishedAt, cursor.ID,
		).
		Order("posts.published_at DESC, posts.id DESC").
		Limit(opts.Page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}

	page := &store.PostPage{Items: make([]store.Post, len(rows))}
	for i := range rows {
		page.Items[i] = *toStorePost(&rows[i])
	}
	if len(rows) == opts.Page.Size && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = query.Cursor{PublishedAt: *last.PublishedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// UpdatePost applies fields iff version matches, replacing tags when
// non-nil. The conditional UPDATE carries the post model so the history
// callbacks can snapshot the row.
func (s *PostsStore) UpdatePost(id int64, version int, fields map[string]interface{}, tags []string) (*store.Post, error) {
	assign, err := normalizePostFields(fields)
	if err != nil {
		return nil, err
	}
	assign["lock_version"] = gorm.Expr("lock_version + 1")

	var updated model.Post
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{ID: id}).
			Where("lock_version = ?", version).
			Updates(assign)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return staleOrMissing(tx, &model.Post{}, id)
		}

		if tags != nil {
			tagRows, err := ensureTagRows(tx, tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Post{ID: id}).Association("Tags").Replace(tagRows); err != nil {
				return mapError(err)
			}
		}

		return tx.Preload("Tags").First(&updated, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toStorePost(&updated), nil
}

// PublishPost flips the post to published at the given time, under the
// same version check as UpdatePost.
func (s *PostsStore) PublishPost(id int64, version int, at time.Time) (*store.Post, error) {
	return s.UpdatePost(id, version, map[string]interface{}{
		"status":       model.StatusPublished.String(),
		"published_at": at.UTC(),
	}, nil)
}

// SoftDeletePost marks the post deleted.
func (s *PostsStore) SoftDeletePost(id int64) error {
	res := s.db.Delete(&model.Post{ID: id})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// HardDeletePost permanently removes a post and its children.
func (s *PostsStore) HardDeletePost(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Post{}).Unscoped().Where("id = ?", id).Count(&count).Error; err != nil {
			return mapError(err)
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return purgePosts(tx, []int64{id})
	})
}

// normalizePostFields validates and converts a field map for the
// conditional UPDATE. Map updates skip model hooks, so slug and status
// handling live here.
func normalizePostFields(fields map[string]interface{}) (map[string]interface{}, error) {
	assign := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		assign[k] = v
	}

	if slug, ok := assign["slug"].(string); ok {
		normalized := model.Slugify(slug)
		if normalized == "" {
			return nil, store.ErrBadField
		}
		assign["slug"] = normalized
	}

	if raw, ok := assign["status"].(string); ok {
		status, err := model.StatusString(raw)
		if err != nil {
			return nil, store.ErrBadField
		}
		assign["status"] = status
		if status == model.StatusPublished {
			if _, set := assign["published_at"]; !set {
				assign["published_at"] = time.Now().UTC()
			}
		}
	}

	return assign, nil
}
