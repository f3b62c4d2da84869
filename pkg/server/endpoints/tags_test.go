package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-sh/inkwell/pkg/store"
)

func TestListTags(t *testing.T) {
	p := newMockProvider()
	p.tags.On("ListTags").Return([]store.Tag{
		{ID: 1, Name: "go"},
		{ID: 2, Name: "testing"},
	}, nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/tags", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp TagListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tags, 2)
	assert.Equal(t, "go", resp.Tags[0].Name)
}

func TestGetTag(t *testing.T) {
	p := newMockProvider()
	p.tags.On("GetTagByName", "go").Return(&store.Tag{ID: 1, Name: "go"}, nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/tags/go", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp TagResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestListTagPosts(t *testing.T) {
	p := newMockProvider()
	p.tags.On("GetTagByName", "go").Return(&store.Tag{ID: 1, Name: "go"}, nil)
	p.posts.On("ListPosts", mock.MatchedBy(func(opts store.ListPostsOptions) bool {
		return opts.Filter.BlogID == 0 && opts.Filter.Tag == "go" && opts.Filter.Status == "published"
	})).Return(&store.PostPage{
		Items: []store.Post{
			{ID: 10, BlogID: 1, Title: "Hello", Slug: "hello", Status: "published", Content: "A few words about Go.", LockVersion: 1},
		},
		Total: 1,
	}, nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/tags/go/posts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp PostListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 1)
	assert.Empty(t, resp.Posts[0].Content)
	assert.NotEmpty(t, resp.Posts[0].Excerpt)
}

func TestListTagPostsUnknownTag(t *testing.T) {
	p := newMockProvider()
	p.tags.On("GetTagByName", "nope").Return(nil, store.ErrNotFound)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/tags/nope/posts", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTagUnknown(t *testing.T) {
	p := newMockProvider()
	p.tags.On("GetTagByName", "nope").Return(nil, store.ErrNotFound)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/tags/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
