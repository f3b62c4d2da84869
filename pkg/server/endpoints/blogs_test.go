package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-sh/inkwell/pkg/store"
)

func TestListBlogs(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("ListBlogs", mock.Anything, mock.Anything).Return([]store.Blog{
		{ID: 1, Name: "Engineering", Slug: "engineering", LockVersion: 1},
		{ID: 2, Name: "Kitchen", Slug: "kitchen", LockVersion: 3},
	}, int64(2), nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/blogs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp BlogListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Blogs, 2)
	assert.Equal(t, "engineering", resp.Blogs[0].Slug)
}

func TestGetBlog(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("GetBlogBySlug", "engineering", false).Return(&store.Blog{
		ID: 1, Name: "Engineering", Slug: "engineering", LockVersion: 4,
	}, nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/blogs/engineering", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"4"`, w.Header().Get("ETag"))
}

func TestGetBlogNotFound(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("GetBlogBySlug", "nope", false).Return(nil, store.ErrNotFound)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/blogs/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBlog(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("CreateBlog", mock.MatchedBy(func(b *store.Blog) bool {
		return b.Name == "Engineering" && b.OwnerID == testIdentity.AuthorID
	})).Run(func(args mock.Arguments) {
		b := args.Get(0).(*store.Blog)
		b.ID = 1
		b.Slug = "engineering"
		b.LockVersion = 1
	}).Return(nil)

	body := `{"name": "Engineering", "description": "How we build"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))
	var resp BlogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "engineering", resp.Slug)
	assert.Equal(t, testIdentity.AuthorID, resp.OwnerID)
}

func TestCreateBlogRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"description": "no name"}`},
		{"rating out of range", `{"name": "x", "rating": 9}`},
		{"unknown field", `{"name": "x", "sneaky": true}`},
		{"malformed json", `{`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newMockProvider()
			w := httptest.NewRecorder()
			newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			p.blogs.AssertNotCalled(t, "CreateBlog", mock.Anything)
		})
	}
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("CreateBlog", mock.Anything).Return(store.ErrDuplicate)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs", strings.NewReader(`{"name": "Engineering"}`)))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateBlog(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("GetBlogBySlug", "engineering", false).Return(&store.Blog{ID: 1, Slug: "engineering", LockVersion: 2}, nil)
	p.blogs.On("UpdateBlog", int64(1), 2, map[string]interface{}{"name": "Platform"}).
		Return(&store.Blog{ID: 1, Name: "Platform", Slug: "engineering", LockVersion: 3}, nil)

	req := httptest.NewRequest("PATCH", "/blogs/engineering", strings.NewReader(`{"name": "Platform"}`))
	req.Header.Set("If-Match", `"2"`)
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"3"`, w.Header().Get("ETag"))
}

func TestUpdateBlogVersionChecks(t *testing.T) {
	t.Run("missing if-match", func(t *testing.T) {
		p := newMockProvider()
		req := httptest.NewRequest("PATCH", "/blogs/engineering", strings.NewReader(`{"name": "x"}`))
		w := httptest.NewRecorder()
		newTestRouter(p).ServeHTTP(w, req)
		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	})

	t.Run("malformed if-match", func(t *testing.T) {
		p := newMockProvider()
		req := httptest.NewRequest("PATCH", "/blogs/engineering", strings.NewReader(`{"name": "x"}`))
		req.Header.Set("If-Match", "not-a-version")
		w := httptest.NewRecorder()
		newTestRouter(p).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stale version", func(t *testing.T) {
		p := newMockProvider()
		p.blogs.On("GetBlogBySlug", "engineering", false).Return(&store.Blog{ID: 1, Slug: "engineering", LockVersion: 5}, nil)
		p.blogs.On("UpdateBlog", int64(1), 2, mock.Anything).Return(nil, store.ErrStaleVersion)

		req := httptest.NewRequest("PATCH", "/blogs/engineering", strings.NewReader(`{"name": "x"}`))
		req.Header.Set("If-Match", `"2"`)
		w := httptest.NewRecorder()
		newTestRouter(p).ServeHTTP(w, req)
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		p := newMockProvider()
		req := httptest.NewRequest("PATCH", "/blogs/engineering", strings.NewReader(`{}`))
		req.Header.Set("If-Match", `"2"`)
		w := httptest.NewRecorder()
		newTestRouter(p).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteBlog(t *testing.T) {
	p := newMockProvider()
	p.blogs.On("GetBlogBySlug", "engineering", false).Return(&store.Blog{ID: 1, Slug: "engineering"}, nil)
	p.blogs.On("SoftDeleteBlog", int64(1)).Return(nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("DELETE", "/blogs/engineering", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	p.blogs.AssertExpectations(t)
}
