package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-sh/inkwell/pkg/dbtest"
	"github.com/inkwell-sh/inkwell/pkg/query"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

const validManifest = `
authors:
  - name: Ada
    email: ada@example.com
    password: wrens and rooks
  - name: Brian
    email: brian@example.com
    password: pelican crossing
blogs:
  - name: Field Notes
    description: observations
    rating: 4
    owner: ada@example.com
    posts:
      - title: First Light
        content: "# dawn"
        status: published
        author: ada@example.com
        tags: [nature, intro]
        comments:
          - author: passerby
            body: lovely
      - title: Second Thoughts
        content: drafting
        status: draft
        author: brian@example.com
`

func TestParseValid(t *testing.T) {
	m, err := Parse(strings.NewReader(validManifest))
	require.NoError(t, err)
	assert.Len(t, m.Authors, 2)
	require.Len(t, m.Blogs, 1)
	assert.Len(t, m.Blogs[0].Posts, 2)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name: "unknown field",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
    pasword: typo
`,
			wantErr: "parse manifest",
		},
		{
			name: "dangling owner",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
blogs:
  - name: Orphan
    owner: ghost@example.com
`,
			wantErr: "unknown owner",
		},
		{
			name: "dangling post author",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
blogs:
  - name: Field Notes
    owner: ada@example.com
    posts:
      - title: Hello
        status: draft
        author: ghost@example.com
`,
			wantErr: "unknown author",
		},
		{
			name: "duplicate author",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
  - name: Also Ada
    email: ada@example.com
`,
			wantErr: "declared twice",
		},
		{
			name: "duplicate blog slug",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
blogs:
  - name: Field Notes
    owner: ada@example.com
  - name: field notes
    owner: ada@example.com
`,
			wantErr: "declared twice",
		},
		{
			name: "bad status",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
blogs:
  - name: Field Notes
    owner: ada@example.com
    posts:
      - title: Hello
        status: pending
        author: ada@example.com
`,
			wantErr: "invalid status",
		},
		{
			name: "bad rating",
			manifest: `
authors:
  - name: Ada
    email: ada@example.com
blogs:
  - name: Field Notes
    owner: ada@example.com
    rating: 9
`,
			wantErr: "rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	db := dbtest.Open(t)
	m, err := Parse(strings.NewReader(validManifest))
	require.NoError(t, err)

	result, err := NewLoader(db).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Authors)
	assert.Equal(t, 1, result.Blogs)
	assert.Equal(t, 2, result.Posts)
	assert.Equal(t, 1, result.Comments)

	blogs := storegorm.NewBlogsStore(db)
	blog, err := blogs.GetBlogBySlug("field-notes", false)
	require.NoError(t, err)
	assert.Equal(t, 4, blog.Rating)

	posts := storegorm.NewPostsStore(db)
	post, err := posts.GetPost(blog.ID, "first-light")
	require.NoError(t, err)
	assert.Equal(t, "published", post.Status)
	assert.NotNil(t, post.PublishedAt)
	assert.ElementsMatch(t, []string{"nature", "intro"}, post.Tags)
}

func TestApplyReusesAuthors(t *testing.T) {
	db := dbtest.Open(t)
	m, err := Parse(strings.NewReader(validManifest))
	require.NoError(t, err)

	_, err = NewLoader(db).Apply(context.Background(), m)
	require.NoError(t, err)

	// Second apply finds the authors and skips the existing blog, so
	// nothing new lands and nothing fails.
	result, err := NewLoader(db).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Authors)
	assert.Equal(t, 0, result.Blogs)
	assert.Equal(t, 0, result.Posts)

	blogs := storegorm.NewBlogsStore(db)
	_, total, err := blogs.ListBlogs(query.Page{Number: 1, Size: 10}, query.Sort{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
