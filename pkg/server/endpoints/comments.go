package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// CommentResponse is the JSON shape of a comment.
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentListResponse is one page of comments, oldest first.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int64             `json:"total"`
}

// CreateCommentRequest submits a reader comment. No account needed.
type CreateCommentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

func toCommentResponse(c *store.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

// RegisterCommentsEndpoints registers the comment endpoints. Both are
// public: readers comment without accounts.
func RegisterCommentsEndpoints(s *server.Server) {
	s.Router.HandleFunc("/blogs/{slug}/posts/{postSlug}/comments", handleListComments(s)).Methods("GET")
	s.Router.HandleFunc("/blogs/{slug}/posts/{postSlug}/comments", handleCreateComment(s)).Methods("POST")
}

func handleListComments(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		cfg := config.Get()
		page := parsePage(r, cfg.PageSizeDefault, cfg.PageSizeMax)

		comments, total, err := p.Comments(r.Context()).ListComments(post.ID, page)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := CommentListResponse{Comments: make([]CommentResponse, len(comments)), Total: total}
		for i := range comments {
			resp.Comments[i] = toCommentResponse(&comments[i])
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleCreateComment(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := resolvePost(w, r, p)
		if !ok {
			return
		}

		var req CreateCommentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.AuthorName = strings.TrimSpace(req.AuthorName)
		req.Body = strings.TrimSpace(req.Body)
		if req.AuthorName == "" || req.Body == "" {
			respondWithError(w, http.StatusBadRequest, "author_name and body are required")
			return
		}

		comment := &store.Comment{
			PostID:     post.ID,
			AuthorName: req.AuthorName,
			Body:       req.Body,
		}
		if err := p.Comments(r.Context()).CreateComment(comment); err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, toCommentResponse(comment))
	}
}
