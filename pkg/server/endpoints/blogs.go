package endpoints

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// BlogResponse is the JSON shape of a blog.
type BlogResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Rating      int        `json:"rating"`
	OwnerID     int64      `json:"owner_id"`
	LockVersion int        `json:"lock_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// BlogListResponse is one page of blogs.
type BlogListResponse struct {
	Blogs []BlogResponse `json:"blogs"`
	Total int64          `json:"total"`
}

// CreateBlogRequest creates a blog owned by the caller.
type CreateBlogRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Rating      int    `json:"rating,omitempty"`
}

// UpdateBlogRequest carries the fields to change. Pointers distinguish
// "leave alone" from "set to zero".
type UpdateBlogRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Rating      *int    `json:"rating,omitempty"`
}

func toBlogResponse(b *store.Blog) BlogResponse {
	return BlogResponse{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		Rating:      b.Rating,
		OwnerID:     b.OwnerID,
		LockVersion: b.LockVersion,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		DeletedAt:   b.DeletedAt,
	}
}

// RegisterBlogsEndpoints registers the blog CRUD endpoints. Reads are
// public; writes require a bearer token.
func RegisterBlogsEndpoints(s *server.Server) {
	router := s.Router

	router.HandleFunc("/blogs", handleListBlogs(s)).Methods("GET")
	router.HandleFunc("/blogs/{slug}", handleGetBlog(s)).Methods("GET")

	authed := router.PathPrefix("/blogs").Subrouter()
	authed.Use(middlewareFor(s))
	authed.HandleFunc("", handleCreateBlog(s)).Methods("POST")
	authed.HandleFunc("/{slug}", handleUpdateBlog(s)).Methods("PATCH", "PUT")
	authed.HandleFunc("/{slug}", handleDeleteBlog(s)).Methods("DELETE")
}

func handleListBlogs(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.Get()
		page := parsePage(r, cfg.PageSizeDefault, cfg.PageSizeMax)
		sort := query.ParseSort(r.URL.Query().Get("sort"))

		blogs, total, err := p.Blogs(r.Context()).ListBlogs(page, sort)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := BlogListResponse{Blogs: make([]BlogResponse, len(blogs)), Total: total}
		for i := range blogs {
			resp.Blogs[i] = toBlogResponse(&blogs[i])
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleGetBlog(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		blog, err := p.Blogs(r.Context()).GetBlogBySlug(slug, false)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, blog.LockVersion)
		respondWithJSON(w, http.StatusOK, toBlogResponse(blog))
	}
}

func handleCreateBlog(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		var req CreateBlogRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Rating < 0 || req.Rating > 5 {
			respondWithError(w, http.StatusBadRequest, "rating must be 0..5")
			return
		}

		blog := &store.Blog{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Rating:      req.Rating,
			OwnerID:     id.AuthorID,
		}
		err := p.Blogs(r.Context()).CreateBlog(blog)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "blog",
			Subject:   blog.Slug,
			Operation: "create",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, blog.LockVersion)
		respondWithJSON(w, http.StatusCreated, toBlogResponse(blog))
	}
}

func handleUpdateBlog(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		slug := mux.Vars(r)["slug"]

		version, ok := requireVersion(w, r)
		if !ok {
			return
		}

		var req UpdateBlogRequest
		if !decodeBody(w, r, &req) {
			return
		}

		fields := map[string]interface{}{}
		var changed []string
		if req.Name != nil {
			fields["name"] = *req.Name
			changed = append(changed, "name")
		}
		if req.Slug != nil {
			fields["slug"] = *req.Slug
			changed = append(changed, "slug")
		}
		if req.Description != nil {
			fields["description"] = *req.Description
			changed = append(changed, "description")
		}
		if req.Rating != nil {
			fields["rating"] = *req.Rating
			changed = append(changed, "rating")
		}
		if len(fields) == 0 {
			respondWithError(w, http.StatusBadRequest, "no fields to update")
			return
		}

		blogs := p.Blogs(r.Context())
		blog, err := blogs.GetBlogBySlug(slug, false)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		updated, err := blogs.UpdateBlog(blog.ID, version, fields)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "blog",
			Subject:   slug,
			Operation: "update",
			Changed:   changed,
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, updated.LockVersion)
		respondWithJSON(w, http.StatusOK, toBlogResponse(updated))
	}
}

func handleDeleteBlog(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		slug := mux.Vars(r)["slug"]

		blogs := p.Blogs(r.Context())
		blog, err := blogs.GetBlogBySlug(slug, false)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		err = blogs.SoftDeleteBlog(blog.ID)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "blog",
			Subject:   slug,
			Operation: "delete",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
