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

func TestListComments(t *testing.T) {
	p := newMockProvider()
	expectPost(p, "engineering", 1, "hello", 10)
	p.comments.On("ListComments", int64(10), mock.Anything).Return([]store.Comment{
		{ID: 1, PostID: 10, AuthorName: "Reader", Body: "Nice one"},
	}, int64(1), nil)

	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("GET", "/blogs/engineering/posts/hello/comments", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CommentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "Reader", resp.Comments[0].AuthorName)
}

func TestCreateComment(t *testing.T) {
	p := newMockProvider()
	expectPost(p, "engineering", 1, "hello", 10)
	p.comments.On("CreateComment", mock.MatchedBy(func(c *store.Comment) bool {
		return c.PostID == 10 && c.AuthorName == "Reader" && c.Body == "Nice one"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*store.Comment).ID = 1
	}).Return(nil)

	body := `{"author_name": "Reader", "body": "Nice one"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs/engineering/posts/hello/comments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp CommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestCreateCommentRejectsBlank(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing author", `{"body": "hi"}`},
		{"blank body", `{"author_name": "Reader", "body": "   "}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newMockProvider()
			expectPost(p, "engineering", 1, "hello", 10)
			w := httptest.NewRecorder()
			newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs/engineering/posts/hello/comments", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			p.comments.AssertNotCalled(t, "CreateComment", mock.Anything)
		})
	}
}

func TestCreateCommentDeletedPost(t *testing.T) {
	p := newMockProvider()
	expectBlog(p, "engineering", 1)
	p.posts.On("GetPost", int64(1), "gone").Return(nil, store.ErrNotFound)

	body := `{"author_name": "Reader", "body": "hi"}`
	w := httptest.NewRecorder()
	newTestRouter(p).ServeHTTP(w, httptest.NewRequest("POST", "/blogs/engineering/posts/gone/comments", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
