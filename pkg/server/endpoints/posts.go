package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/render"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// excerptWords is how many words of the source the list view previews.
const excerptWords = 40

// PostResponse is the JSON shape of a post. HTML is only set when the
// client asks for a rendered view; Excerpt only on listings.
type PostResponse struct {
	ID          int64      `json:"id"`
	BlogID      int64      `json:"blog_id"`
	AuthorID    int64      `json:"author_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content,omitempty"`
	HTML        string     `json:"html,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	LockVersion int        `json:"lock_version"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// PostListResponse is one page of posts. Total is set for page/per_page
// listings, NextCursor for cursor ones.
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Total      int64          `json:"total,omitempty"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreatePostRequest creates a post in a blog.
type CreatePostRequest struct {
	Title   string   `json:"title"`
	Slug    string   `json:"slug,omitempty"`
	Content string   `json:"content,omitempty"`
	Status  string   `json:"status,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdatePostRequest carries the fields to change. A non-nil Tags replaces
// the whole tag set.
type UpdatePostRequest struct {
	Title   *string   `json:"title,omitempty"`
	Slug    *string   `json:"slug,omitempty"`
	Content *string   `json:"content,omitempty"`
	Status  *string   `json:"status,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

func toPostResponse(p *store.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		BlogID:      p.BlogID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Status:      p.Status,
		PublishedAt: p.PublishedAt,
		LockVersion: p.LockVersion,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}

// RegisterPostsEndpoints registers the post endpoints under their blog.
func RegisterPostsEndpoints(s *server.Server) {
	router := s.Router

	router.HandleFunc("/blogs/{slug}/posts", handleListPosts(s)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}", handleGetPost(s, s.Cache)).Methods("GET")

	authed := router.PathPrefix("/blogs/{slug}/posts").Subrouter()
	authed.Use(middlewareFor(s))
	authed.HandleFunc("", handleCreatePost(s)).Methods("POST")
	authed.HandleFunc("/{postSlug}", handleUpdatePost(s)).Methods("PATCH", "PUT")
	authed.HandleFunc("/{postSlug}", handleDeletePost(s, s.Cache)).Methods("DELETE")
	authed.HandleFunc("/{postSlug}/publish", handlePublishPost(s)).Methods("POST")
}

// resolveBlog turns the slug in the route into a blog record.
func resolveBlog(w http.ResponseWriter, r *http.Request, p Provider) (*store.Blog, bool) {
	slug := mux.Vars(r)["slug"]
	blog, err := p.Blogs(r.Context()).GetBlogBySlug(slug, false)
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	return blog, true
}

func handleListPosts(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		cfg := config.Get()
		q := r.URL.Query()

		filter := store.PostFilter{
			BlogID:     blog.ID,
			Status:     q.Get("status"),
			Tag:        q.Get("tag"),
			TitleQuery: q.Get("q"),
		}
		if raw := q.Get("author_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "malformed author_id")
				return
			}
			filter.AuthorID = id
		}
		if raw := q.Get("published_after"); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "malformed published_after")
				return
			}
			filter.PublishedAfter = &at
		}
		if raw := q.Get("published_before"); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "malformed published_before")
				return
			}
			filter.PublishedBefore = &at
		}

		page, err := p.Posts(r.Context()).ListPosts(store.ListPostsOptions{
			Filter: filter,
			Sort:   query.ParseSort(q.Get("sort")),
			Page:   parsePage(r, cfg.PageSizeDefault, cfg.PageSizeMax),
			Cursor: q.Get("cursor"),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := PostListResponse{
			Posts:      make([]PostResponse, len(page.Items)),
			Total:      page.Total,
			NextCursor: page.NextCursor,
		}
		for i := range page.Items {
			item := toPostResponse(&page.Items[i])
			item.Excerpt = render.Excerpt(item.Content, excerptWords)
			item.Content = ""
			resp.Posts[i] = item
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleGetPost(p Provider, htmlCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		post, err := p.Posts(r.Context()).GetPost(blog.ID, mux.Vars(r)["postSlug"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := toPostResponse(post)
		if r.URL.Query().Get("render") == "html" {
			key := cache.PostHTMLKey(post.ID, post.LockVersion)
			html, err := htmlCache.Fetch(r.Context(), key, cache.DefaultTTL, func() (string, error) {
				return render.HTML(post.Content)
			})
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resp.HTML = html
		}

		setVersionHeader(w, post.LockVersion)
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleCreatePost(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		var req CreatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Title == "" {
			respondWithError(w, http.StatusBadRequest, "title is required")
			return
		}
		if req.Status == "" {
			req.Status = "draft"
		}

		post := &store.Post{
			BlogID:   blog.ID,
			AuthorID: id.AuthorID,
			Title:    req.Title,
			Slug:     req.Slug,
			Content:  req.Content,
			Status:   req.Status,
		}
		err := p.Posts(r.Context()).CreatePost(post, req.Tags)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "post",
			Subject:   blog.Slug + "/" + post.Slug,
			Operation: "create",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, post.LockVersion)
		respondWithJSON(w, http.StatusCreated, toPostResponse(post))
	}
}

func handleUpdatePost(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		version, ok := requireVersion(w, r)
		if !ok {
			return
		}

		var req UpdatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}

		fields := map[string]interface{}{}
		var changed []string
		if req.Title != nil {
			fields["title"] = *req.Title
			changed = append(changed, "title")
		}
		if req.Slug != nil {
			fields["slug"] = *req.Slug
			changed = append(changed, "slug")
		}
		if req.Content != nil {
			fields["content"] = *req.Content
			changed = append(changed, "content")
		}
		if req.Status != nil {
			fields["status"] = *req.Status
			changed = append(changed, "status")
		}
		var tags []string
		if req.Tags != nil {
			tags = *req.Tags
			if tags == nil {
				tags = []string{}
			}
			changed = append(changed, "tags")
		}
		if len(fields) == 0 && req.Tags == nil {
			respondWithError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		posts := p.Posts(r.Context())
		post, err := posts.GetPost(blog.ID, mux.Vars(r)["postSlug"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		updated, err := posts.UpdatePost(post.ID, version, fields, tags)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "post",
			Subject:   blog.Slug + "/" + post.Slug,
			Operation: "update",
			Changed:   changed,
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, updated.LockVersion)
		respondWithJSON(w, http.StatusOK, toPostResponse(updated))
	}
}

func handlePublishPost(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		version, ok := requireVersion(w, r)
		if !ok {
			return
		}

		posts := p.Posts(r.Context())
		post, err := posts.GetPost(blog.ID, mux.Vars(r)["postSlug"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		published, err := posts.PublishPost(post.ID, version, time.Now().UTC())

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "post",
			Subject:   blog.Slug + "/" + post.Slug,
			Operation: "publish",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, published.LockVersion)
		respondWithJSON(w, http.StatusOK, toPostResponse(published))
	}
}

func handleDeletePost(p Provider, htmlCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		blog, ok := resolveBlog(w, r, p)
		if !ok {
			return
		}

		posts := p.Posts(r.Context())
		post, err := posts.GetPost(blog.ID, mux.Vars(r)["postSlug"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		err = posts.SoftDeletePost(post.ID)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "post",
			Subject:   blog.Slug + "/" + post.Slug,
			Operation: "delete",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		// Deleted posts must stop serving cached HTML right away.
		htmlCache.Invalidate(r.Context(), cache.PostHTMLKey(post.ID, post.LockVersion))

		w.WriteHeader(http.StatusNoContent)
	}
}
