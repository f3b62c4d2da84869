package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/identity"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// MockAuthorsStore implements store.AuthorsStore for testing using testify/mock
type MockAuthorsStore struct {
	mock.Mock
}

func (m *MockAuthorsStore) CreateAuthor(author *store.Author) error {
	args := m.Called(author)
	return args.Error(0)
}

func (m *MockAuthorsStore) GetAuthorByEmail(email string) (*store.Author, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Author), args.Error(1)
}

func (m *MockAuthorsStore) GetAuthorByID(id int64) (*store.Author, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Author), args.Error(1)
}

func (m *MockAuthorsStore) SetPasswordDigest(id int64, digest []byte) error {
	args := m.Called(id, digest)
	return args.Error(0)
}

func (m *MockAuthorsStore) SetAPIKey(authorID int64, key []byte, rotatedAt time.Time) error {
	args := m.Called(authorID, key, rotatedAt)
	return args.Error(0)
}

func (m *MockAuthorsStore) GetAPIKey(authorID int64) ([]byte, error) {
	args := m.Called(authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockBlogsStore implements store.BlogsStore for testing using testify/mock
type MockBlogsStore struct {
	mock.Mock
}

func (m *MockBlogsStore) CreateBlog(blog *store.Blog) error {
	args := m.Called(blog)
	return args.Error(0)
}

func (m *MockBlogsStore) GetBlogBySlug(slug string, withDeleted bool) (*store.Blog, error) {
	args := m.Called(slug, withDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Blog), args.Error(1)
}

func (m *MockBlogsStore) GetBlogByID(id int64) (*store.Blog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Blog), args.Error(1)
}

func (m *MockBlogsStore) ListBlogs(page query.Page, sort query.Sort) ([]store.Blog, int64, error) {
	args := m.Called(page, sort)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlogsStore) UpdateBlog(id int64, version int, fields map[string]interface{}) (*store.Blog, error) {
	args := m.Called(id, version, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Blog), args.Error(1)
}

func (m *MockBlogsStore) SoftDeleteBlog(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBlogsStore) HardDeleteBlog(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPostsStore implements store.PostsStore for testing using testify/mock
type MockPostsStore struct {
	mock.Mock
}

func (m *MockPostsStore) CreatePost(post *store.Post, tags []string) error {
	args := m.Called(post, tags)
	return args.Error(0)
}

func (m *MockPostsStore) GetPost(blogID int64, slug string) (*store.Post, error) {
	args := m.Called(blogID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Post), args.Error(1)
}

func (m *MockPostsStore) GetPostByID(id int64) (*store.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Post), args.Error(1)
}

func (m *MockPostsStore) ListPosts(opts store.ListPostsOptions) (*store.PostPage, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.PostPage), args.Error(1)
}

func (m *MockPostsStore) UpdatePost(id int64, version int, fields map[string]interface{}, tags []string) (*store.Post, error) {
	args := m.Called(id, version, fields, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Post), args.Error(1)
}

func (m *MockPostsStore) PublishPost(id int64, version int, at time.Time) (*store.Post, error) {
	args := m.Called(id, version, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Post), args.Error(1)
}

func (m *MockPostsStore) SoftDeletePost(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostsStore) HardDeletePost(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockTagsStore implements store.TagsStore for testing using testify/mock
type MockTagsStore struct {
	mock.Mock
}

func (m *MockTagsStore) EnsureTags(names []string) ([]store.Tag, error) {
	args := m.Called(names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Tag), args.Error(1)
}

func (m *MockTagsStore) ListTags() ([]store.Tag, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Tag), args.Error(1)
}

func (m *MockTagsStore) GetTagByName(name string) (*store.Tag, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Tag), args.Error(1)
}

// MockCommentsStore implements store.CommentsStore for testing using testify/mock
type MockCommentsStore struct {
	mock.Mock
}

func (m *MockCommentsStore) CreateComment(comment *store.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentsStore) ListComments(postID int64, page query.Page) ([]store.Comment, int64, error) {
	args := m.Called(postID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Comment), args.Get(1).(int64), args.Error(2)
}

// MockRevisionsStore implements store.RevisionsStore for testing using testify/mock
type MockRevisionsStore struct {
	mock.Mock
}

func (m *MockRevisionsStore) ListRevisions(postID int64, page query.Page) ([]store.Revision, int64, error) {
	args := m.Called(postID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Revision), args.Get(1).(int64), args.Error(2)
}

func (m *MockRevisionsStore) GetRevision(postID int64, revision int) (*store.Revision, error) {
	args := m.Called(postID, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Revision), args.Error(1)
}

func (m *MockRevisionsStore) RevisionAt(postID int64, t time.Time) (*store.Revision, error) {
	args := m.Called(postID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Revision), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

// mockProvider hands the mock stores to the handlers under test.
type mockProvider struct {
	authors   *MockAuthorsStore
	blogs     *MockBlogsStore
	posts     *MockPostsStore
	tags      *MockTagsStore
	comments  *MockCommentsStore
	revisions *MockRevisionsStore
	health    *MockHealthStore
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		authors:   &MockAuthorsStore{},
		blogs:     &MockBlogsStore{},
		posts:     &MockPostsStore{},
		tags:      &MockTagsStore{},
		comments:  &MockCommentsStore{},
		revisions: &MockRevisionsStore{},
		health:    &MockHealthStore{},
	}
}

func (p *mockProvider) Authors(ctx context.Context) store.AuthorsStore     { return p.authors }
func (p *mockProvider) Blogs(ctx context.Context) store.BlogsStore         { return p.blogs }
func (p *mockProvider) Posts(ctx context.Context) store.PostsStore         { return p.posts }
func (p *mockProvider) Tags(ctx context.Context) store.TagsStore           { return p.tags }
func (p *mockProvider) Comments(ctx context.Context) store.CommentsStore   { return p.comments }
func (p *mockProvider) Revisions(ctx context.Context) store.RevisionsStore { return p.revisions }
func (p *mockProvider) Health(ctx context.Context) store.HealthStore       { return p.health }

// testIdentity is the authenticated caller the test routers inject on
// authed routes.
var testIdentity = &identity.Identity{
	AuthorID:  7,
	Email:     "vera@example.com",
	Name:      "Vera",
	IssuedAt:  time.Now().UTC(),
	ExpiresAt: time.Now().UTC().Add(time.Hour),
	RemoteIP:  "203.0.113.9",
}

func injectIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), testIdentity)))
	})
}

// newDisabledCache returns a cache with no backend; every fetch falls
// through to the loader.
func newDisabledCache() *cache.Cache {
	c, _ := cache.NewFromURL("")
	return c
}

// newTestRouter wires the handlers to a bare router, with a canned
// identity standing in for the bearer middleware on authed routes.
func newTestRouter(p Provider) *mux.Router {
	router := mux.NewRouter().UseEncodedPath()

	router.HandleFunc("/blogs", handleListBlogs(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}", handleGetBlog(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts", handleListPosts(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}", handleGetPost(p, newDisabledCache())).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/comments", handleListComments(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/comments", handleCreateComment(p)).Methods("POST")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions", handleListRevisions(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions/asof", handleRevisionAt(p)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions/{number:[0-9]+}", handleGetRevision(p)).Methods("GET")
	router.HandleFunc("/tags", handleListTags(p)).Methods("GET")
	router.HandleFunc("/tags/{name}", handleGetTag(p)).Methods("GET")
	router.HandleFunc("/tags/{name}/posts", handleListTagPosts(p)).Methods("GET")

	authed := router.NewRoute().Subrouter()
	authed.Use(injectIdentity)
	authed.HandleFunc("/blogs", handleCreateBlog(p)).Methods("POST")
	authed.HandleFunc("/blogs/{slug}", handleUpdateBlog(p)).Methods("PATCH")
	authed.HandleFunc("/blogs/{slug}", handleDeleteBlog(p)).Methods("DELETE")
	authed.HandleFunc("/blogs/{slug}/posts", handleCreatePost(p)).Methods("POST")
	authed.HandleFunc("/blogs/{slug}/posts/{postSlug}", handleUpdatePost(p)).Methods("PATCH")
	authed.HandleFunc("/blogs/{slug}/posts/{postSlug}", handleDeletePost(p, newDisabledCache())).Methods("DELETE")
	authed.HandleFunc("/blogs/{slug}/posts/{postSlug}/publish", handlePublishPost(p)).Methods("POST")
	authed.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions/{number:[0-9]+}/restore", handleRestoreRevision(p)).Methods("POST")
	authed.HandleFunc("/authors", handleCreateAuthor(p)).Methods("POST")
	authed.HandleFunc("/authors/me/rotate-key", handleRotateKey(p)).Methods("POST")
	authed.HandleFunc("/authors/me/password", handleChangePassword(p)).Methods("POST")

	return router
}
