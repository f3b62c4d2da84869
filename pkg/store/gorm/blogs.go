package gorm

import (
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Ensure BlogsStore implements store.BlogsStore
var _ store.BlogsStore = (*BlogsStore)(nil)

// blogSortColumns whitelists the sortable blog fields.
var blogSortColumns = map[string]string{
	"name":       "name",
	"slug":       "slug",
	"rating":     "rating",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// BlogsStore implements store.BlogsStore using GORM
type BlogsStore struct {
	db *gorm.DB
}

// NewBlogsStore creates a new BlogsStore
func NewBlogsStore(db *gorm.DB) *BlogsStore {
	return &BlogsStore{db: db}
}

func toStoreBlog(b *model.Blog) *store.Blog {
	out := &store.Blog{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		Rating:      b.Rating,
		OwnerID:     b.OwnerID,
		LockVersion: b.LockVersion,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.DeletedAt.Valid {
		t := b.DeletedAt.Time
		out.DeletedAt = &t
	}
	return out
}

// CreateBlog creates a blog.
func (s *BlogsStore) CreateBlog(blog *store.Blog) error {
	m := model.Blog{
		Name:        blog.Name,
		Slug:        blog.Slug,
		Description: blog.Description,
		Rating:      blog.Rating,
		OwnerID:     blog.OwnerID,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return mapError(err)
	}
	blog.ID = m.ID
	blog.Slug = m.Slug
	blog.LockVersion = m.LockVersion
	blog.CreatedAt = m.CreatedAt
	blog.UpdatedAt = m.UpdatedAt
	return nil
}

// GetBlogBySlug retrieves a blog by slug.
func (s *BlogsStore) GetBlogBySlug(slug string, withDeleted bool) (*store.Blog, error) {
	tx := s.db
	if withDeleted {
		tx = tx.Unscoped()
	}
	var m model.Blog
	if err := tx.Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, mapError(err)
	}
	return toStoreBlog(&m), nil
}

// GetBlogByID retrieves a blog by id.
func (s *BlogsStore) GetBlogByID(id int64) (*store.Blog, error) {
	var m model.Blog
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	return toStoreBlog(&m), nil
}

// ListBlogs returns one page of blogs plus the total count.
func (s *BlogsStore) ListBlogs(page query.Page, sort query.Sort) ([]store.Blog, int64, error) {
	column, err := sort.Column(blogSortColumns, "name")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.Model(&model.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	var rows []model.Blog
	err = s.db.
		Scopes(query.OrderBy(column, sort.Desc), query.Paginate(page)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	blogs := make([]store.Blog, len(rows))
	for i := range rows {
		blogs[i] = *toStoreBlog(&rows[i])
	}
	return blogs, total, nil
}

// UpdateBlog applies fields iff version matches the stored lock_version.
func (s *BlogsStore) UpdateBlog(id int64, version int, fields map[string]interface{}) (*store.Blog, error) {
	assign := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		assign[k] = v
	}
	// Map updates skip model hooks, so normalize here.
	if slug, ok := assign["slug"].(string); ok {
		assign["slug"] = model.Slugify(slug)
	}
	if name, ok := assign["name"].(string); ok {
		if _, hasSlug := assign["slug"]; !hasSlug {
			assign["slug"] = model.Slugify(name)
		}
	}
	if rating, ok := assign["rating"].(int); ok && (rating < 0 || rating > 5) {
		return nil, store.ErrBadField
	}
	assign["lock_version"] = gorm.Expr("lock_version + 1")

	var updated model.Blog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Blog{}).
			Where("id = ? AND lock_version = ?", id, version).
			Updates(assign)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return staleOrMissing(tx, &model.Blog{}, id)
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toStoreBlog(&updated), nil
}

// SoftDeleteBlog marks the blog deleted.
func (s *BlogsStore) SoftDeleteBlog(id int64) error {
	res := s.db.Delete(&model.Blog{}, id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// HardDeleteBlog permanently removes a blog and its posts.
func (s *BlogsStore) HardDeleteBlog(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []int64
		if err := tx.Model(&model.Post{}).Unscoped().
			Where("blog_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return mapError(err)
		}
		if len(postIDs) > 0 {
			if err := purgePosts(tx, postIDs); err != nil {
				return err
			}
		}
		res := tx.Unscoped().Delete(&model.Blog{}, id)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// purgePosts removes posts and their children: comments, tag links and
// revision history. Runs inside the caller's transaction.
func purgePosts(tx *gorm.DB, postIDs []int64) error {
	if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
		return mapError(err)
	}
	if err := tx.Exec("DELETE FROM post_tags WHERE post_id IN ?", postIDs).Error; err != nil {
		return mapError(err)
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&model.PostRevision{}).Error; err != nil {
		return mapError(err)
	}
	if err := tx.Unscoped().Where("id IN ?", postIDs).Delete(&model.Post{}).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// staleOrMissing reports why a version-checked UPDATE hit zero rows. The
// count honors the soft-delete scope, so a deleted row reads as missing
// rather than stale.
func staleOrMissing(tx *gorm.DB, m interface{}, id int64) error {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return mapError(err)
	}
	if count > 0 {
		return store.ErrStaleVersion
	}
	return store.ErrNotFound
}
