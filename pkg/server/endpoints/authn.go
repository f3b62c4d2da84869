package endpoints

import (
	"errors"
	"net/http"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// LoginRequest carries login credentials: the password or the API key,
// never both.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// LoginResponse carries the minted access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterAuthnEndpoints registers the login endpoints. Both routes share
// the handler; /authn/apikey exists so API-key clients don't have to know
// the combined request shape.
func RegisterAuthnEndpoints(s *server.Server) {
	s.Router.HandleFunc("/authn/login", handleLogin(s, s.Tokens)).Methods("POST")
	s.Router.HandleFunc("/authn/apikey", handleLogin(s, s.Tokens)).Methods("POST")
}

func handleLogin(p Provider, tokens *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		clientIP := middleware.RemoteIP(r)
		method := "password"
		if req.APIKey != "" {
			method = "api-key"
		}

		reject := func(reason string) {
			audit.Log(audit.LoginEvent{
				Email:        req.Email,
				ClientIP:     clientIP,
				Method:       method,
				Success:      false,
				ErrorMessage: reason,
			})
			respondWithError(w, http.StatusUnauthorized, "invalid credentials")
		}

		if req.Email == "" || (req.Password == "" && req.APIKey == "") {
			reject("missing credentials")
			return
		}

		authors := p.Authors(r.Context())
		author, err := authors.GetAuthorByEmail(req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				reject("unknown author")
				return
			}
			respondWithStoreError(w, err)
			return
		}

		if method == "password" {
			err = auth.CheckPassword(author.PasswordDigest, req.Password)
		} else {
			var stored []byte
			stored, err = authors.GetAPIKey(author.ID)
			if err == nil {
				err = auth.CheckAPIKey(stored, []byte(req.APIKey))
			}
		}
		if err != nil {
			reject("credential mismatch")
			return
		}

		token, err := tokens.Issue(author.ID, author.Email, author.Name)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "internal error")
			return
		}

		audit.Log(audit.LoginEvent{
			Email:    author.Email,
			ClientIP: clientIP,
			Method:   method,
			Success:  true,
		})
		respondWithJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
