package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/db"
	"github.com/inkwell-sh/inkwell/pkg/store"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// Result counts what one Apply created.
type Result struct {
	Authors  int
	Blogs    int
	Posts    int
	Comments int
}

// Loader applies manifests against a database.
type Loader struct {
	db *gorm.DB
}

// NewLoader creates a Loader.
func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// Apply loads the manifest in a single transaction: either everything
// lands or nothing does. Authors already present (by email) are reused,
// not counted. A blog whose slug already exists is skipped wholesale
// (its savepoint is rolled back), so re-applying the same manifest is a
// no-op; any other failure aborts the load.
func (l *Loader) Apply(ctx context.Context, m *Manifest) (*Result, error) {
	var result Result

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authors := storegorm.NewAuthorsStore(tx)

		authorIDs := make(map[string]int64, len(m.Authors))
		for _, spec := range m.Authors {
			existing, err := authors.GetAuthorByEmail(spec.Email)
			if err == nil {
				authorIDs[spec.Email] = existing.ID
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			digest, err := auth.HashPassword(spec.Password)
			if err != nil {
				return err
			}
			author := &store.Author{
				Name:           spec.Name,
				Email:          spec.Email,
				PasswordDigest: digest,
			}
			if err := authors.CreateAuthor(author); err != nil {
				return fmt.Errorf("create author %q: %w", spec.Email, err)
			}
			authorIDs[spec.Email] = author.ID
			result.Authors++
		}

		for _, blogSpec := range m.Blogs {
			var tally Result
			err := db.WithSavepoint(tx, "seed_blog", func(tx *gorm.DB) error {
				blogs := storegorm.NewBlogsStore(tx)
				posts := storegorm.NewPostsStore(tx)
				comments := storegorm.NewCommentsStore(tx)

				blog := &store.Blog{
					Name:        blogSpec.Name,
					Slug:        blogSpec.Slug,
					Description: blogSpec.Description,
					Rating:      blogSpec.Rating,
					OwnerID:     authorIDs[blogSpec.Owner],
				}
				if err := blogs.CreateBlog(blog); err != nil {
					return fmt.Errorf("create blog %q: %w", blogSpec.Name, err)
				}
				tally.Blogs++

				for _, postSpec := range blogSpec.Posts {
					post := &store.Post{
						BlogID:      blog.ID,
						AuthorID:    authorIDs[postSpec.Author],
						Title:       postSpec.Title,
						Slug:        postSpec.Slug,
						Content:     postSpec.Content,
						Status:      postSpec.Status,
						PublishedAt: postSpec.PublishedAt,
					}
					if err := posts.CreatePost(post, postSpec.Tags); err != nil {
						return fmt.Errorf("create post %q: %w", postSpec.Title, err)
					}
					tally.Posts++

					for _, commentSpec := range postSpec.Comments {
						comment := &store.Comment{
							PostID:     post.ID,
							AuthorName: commentSpec.Author,
							Body:       commentSpec.Body,
						}
						if err := comments.CreateComment(comment); err != nil {
							return fmt.Errorf("create comment on %q: %w", postSpec.Title, err)
						}
						tally.Comments++
					}
				}
				return nil
			})
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			if err != nil {
				return err
			}
			result.Blogs += tally.Blogs
			result.Posts += tally.Posts
			result.Comments += tally.Comments
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
