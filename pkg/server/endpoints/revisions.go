package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/history"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// RevisionResponse is one snapshot out of a post's history.
type RevisionResponse struct {
	PostID    int64      `json:"post_id"`
	Revision  int        `json:"revision"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    string     `json:"status"`
	EditorID  *int64     `json:"editor_id,omitempty"`
	Action    string     `json:"action"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// RevisionListResponse is one page of a post's history, newest first.
type RevisionListResponse struct {
	Revisions []RevisionResponse `json:"revisions"`
	Total     int64              `json:"total"`
}

func toRevisionResponse(rev *store.Revision) RevisionResponse {
	return RevisionResponse{
		PostID:    rev.PostID,
		Revision:  rev.Revision,
		Title:     rev.Title,
		Content:   rev.Content,
		Status:    rev.Status,
		EditorID:  rev.EditorID,
		Action:    rev.Action,
		ValidFrom: rev.ValidFrom,
		ValidTo:   rev.ValidTo,
	}
}

// RegisterRevisionsEndpoints registers the post history endpoints.
// History reads are public like the posts they describe; restoring
// requires a bearer token.
func RegisterRevisionsEndpoints(s *server.Server) {
	router := s.Router

	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions", handleListRevisions(s)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions/asof", handleRevisionAt(s)).Methods("GET")
	router.HandleFunc("/blogs/{slug}/posts/{postSlug}/revisions/{number:[0-9]+}", handleGetRevision(s)).Methods("GET")

	authed := s.Router.PathPrefix("/blogs/{slug}/posts/{postSlug}/revisions").Subrouter()
	authed.Use(middlewareFor(s))
	authed.HandleFunc("/{number:[0-9]+}/restore", handleRestoreRevision(s)).Methods("POST")
}

// resolvePost turns the blog and post slugs in the route into a post record.
func resolvePost(w http.ResponseWriter, r *http.Request, p Provider) (*store.Post, bool) {
	blog, ok := resolveBlog(w, r, p)
	if !ok {
		return nil, false
	}
	post, err := p.Posts(r.Context()).GetPost(blog.ID, mux.Vars(r)["postSlug"])
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	return post, true
}

func handleListRevisions(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		cfg := config.Get()
		page := parsePage(r, cfg.PageSizeDefault, cfg.PageSizeMax)

		revisions, total, err := p.Revisions(r.Context()).ListRevisions(post.ID, page)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := RevisionListResponse{Revisions: make([]RevisionResponse, len(revisions)), Total: total}
		for i := range revisions {
			resp.Revisions[i] = toRevisionResponse(&revisions[i])
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleGetRevision(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		number, err := strconv.Atoi(mux.Vars(r)["number"])
		if err != nil || number < 1 {
			respondWithError(w, http.StatusBadRequest, "malformed revision number")
			return
		}

		rev, err := p.Revisions(r.Context()).GetRevision(post.ID, number)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, toRevisionResponse(rev))
	}
}

func handleRevisionAt(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		at, err := time.Parse(time.RFC3339, r.URL.Query().Get("at"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed at, want RFC3339")
			return
		}

		rev, err := p.Revisions(r.Context()).RevisionAt(post.ID, at)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, toRevisionResponse(rev))
	}
}

func handleRestoreRevision(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		version, ok := requireVersion(w, r)
		if !ok {
			return
		}

		number, err := strconv.Atoi(mux.Vars(r)["number"])
		if err != nil || number < 1 {
			respondWithError(w, http.StatusBadRequest, "malformed revision number")
			return
		}

		rev, err := p.Revisions(r.Context()).GetRevision(post.ID, number)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		// The restore is an ordinary versioned update; the context marker
		// makes the resulting snapshot carry the restore action.
		restored, err := p.Posts(history.MarkRestore(r.Context())).UpdatePost(post.ID, version, map[string]interface{}{
			"title":   rev.Title,
			"content": rev.Content,
			"status":  rev.Status,
		}, nil)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "post",
			Subject:   mux.Vars(r)["slug"] + "/" + post.Slug,
			Operation: "restore",
			Changed:   []string{"content", "status", "title"},
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		setVersionHeader(w, restored.LockVersion)
		respondWithJSON(w, http.StatusOK, toPostResponse(restored))
	}
}
