package endpoints

import (
	"github.com/gorilla/mux"

	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	srv.Router.Use(middleware.RequestID)

	RegisterStatusEndpoints(srv)
	RegisterAuthnEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterAuthorsEndpoints(srv)
	RegisterBlogsEndpoints(srv)
	RegisterPostsEndpoints(srv)
	RegisterRevisionsEndpoints(srv)
	RegisterCommentsEndpoints(srv)
	RegisterTagsEndpoints(srv)
}

// middlewareFor builds the bearer token middleware for the server's
// token issuer. Subrouters that hold write endpoints install it.
func middlewareFor(s *server.Server) mux.MiddlewareFunc {
	authenticator := middleware.NewBearerAuthenticator(s.Tokens)
	return authenticator.Middleware
}
