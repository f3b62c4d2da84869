package endpoints

import (
	"net/http"
	"time"

	"github.com/inkwell-sh/inkwell/pkg/identity"
	"github.com/inkwell-sh/inkwell/pkg/server"
)

// WhoamiResponse describes the authenticated caller.
type WhoamiResponse struct {
	AuthorID int64     `json:"author_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	ClientIP string    `json:"client_ip"`
	TokenIat time.Time `json:"token_issued_at"`
	TokenExp time.Time `json:"token_expires_at"`
}

// RegisterWhoamiEndpoint registers the whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	authed := s.Router.PathPrefix("/whoami").Subrouter()
	authed.Use(middlewareFor(s))
	authed.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			AuthorID: id.AuthorID,
			Email:    id.Email,
			Name:     id.Name,
			ClientIP: id.RemoteIP,
			TokenIat: id.IssuedAt,
			TokenExp: id.ExpiresAt,
		})
	}
}
