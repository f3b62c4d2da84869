package endpoints

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// RotateKeyResponse carries the freshly minted API key. This is the only
// time the key is shown; it is stored encrypted and never listed.
type RotateKeyResponse struct {
	APIKey    string    `json:"api_key"`
	RotatedAt time.Time `json:"rotated_at"`
}

// ChangePasswordRequest changes the caller's password. The current one is
// re-checked even though the request already carries a valid token.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateAuthorRequest invites a new author. The response carries their
// generated API key exactly once.
type CreateAuthorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthorResponse is the JSON shape of an author. No credential material.
type AuthorResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	APIKey    string    `json:"api_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterAuthorsEndpoints registers author management. Creation requires
// an authenticated caller; the me endpoints act on the caller only.
func RegisterAuthorsEndpoints(s *server.Server) {
	create := s.Router.PathPrefix("/authors").Subrouter()
	create.Use(middlewareFor(s))
	create.HandleFunc("", handleCreateAuthor(s)).Methods("POST")

	authed := s.Router.PathPrefix("/authors/me").Subrouter()
	authed.Use(middlewareFor(s))
	authed.HandleFunc("/rotate-key", handleRotateKey(s)).Methods("POST")
	authed.HandleFunc("/password", handleChangePassword(s)).Methods("POST")
}

func handleCreateAuthor(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		var req CreateAuthorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" {
			respondWithError(w, http.StatusBadRequest, "email is required")
			return
		}
		if len(req.Password) < 8 {
			respondWithError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		if req.Name == "" {
			req.Name = req.Email
		}

		digest, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}

		authors := p.Authors(r.Context())
		author := &store.Author{Name: req.Name, Email: req.Email, PasswordDigest: digest}
		err = authors.CreateAuthor(author)

		audit.Log(audit.EntityEvent{
			Email:     id.Email,
			ClientIP:  middleware.RemoteIP(r),
			Kind:      "author",
			Subject:   req.Email,
			Operation: "create",
			Success:   err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		key, err := auth.GenerateAPIKey()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := authors.SetAPIKey(author.ID, key, time.Now().UTC()); err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, AuthorResponse{
			ID:        author.ID,
			Name:      author.Name,
			Email:     author.Email,
			APIKey:    hex.EncodeToString(key),
			CreatedAt: author.CreatedAt,
		})
	}
}

func handleRotateKey(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		clientIP := middleware.RemoteIP(r)

		key, err := auth.GenerateAPIKey()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rotatedAt := time.Now().UTC()
		err = p.Authors(r.Context()).SetAPIKey(id.AuthorID, key, rotatedAt)

		audit.Log(audit.KeyRotationEvent{
			Email:    id.Email,
			ClientIP: clientIP,
			Success:  err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, RotateKeyResponse{
			APIKey:    hex.EncodeToString(key),
			RotatedAt: rotatedAt,
		})
	}
}

func handleChangePassword(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		clientIP := middleware.RemoteIP(r)

		var req ChangePasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.NewPassword) < 8 {
			respondWithError(w, http.StatusBadRequest, "new password must be at least 8 characters")
			return
		}

		authors := p.Authors(r.Context())
		author, err := authors.GetAuthorByID(id.AuthorID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		if err := auth.CheckPassword(author.PasswordDigest, req.CurrentPassword); err != nil {
			audit.Log(audit.PasswordEvent{
				Email:        id.Email,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: "current password mismatch",
			})
			respondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		digest, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}

		err = authors.SetPasswordDigest(id.AuthorID, digest)

		audit.Log(audit.PasswordEvent{
			Email:    id.Email,
			ClientIP: clientIP,
			Success:  err == nil,
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
