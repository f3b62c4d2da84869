package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/log"
	"github.com/inkwell-sh/inkwell/pkg/seal"
)

type Server struct {
	Config *config.Config
	Cipher seal.SymmetricCipher
	Tokens *auth.TokenIssuer
	Cache  *cache.Cache
	Router *mux.Router
	DB     *gorm.DB
	srv    *http.Server
}

func NewServer(
	cfg *config.Config,
	cipher seal.SymmetricCipher,
	tokens *auth.TokenIssuer,
	htmlCache *cache.Cache,
	db *gorm.DB,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	cors := handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "If-Match"}),
		handlers.ExposedHeaders([]string{"ETag"}),
	)
	srv := &http.Server{
		Handler: handlers.LoggingHandler(log.Writer(zerolog.InfoLevel), cors(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config: cfg,
		Cipher: cipher,
		Tokens: tokens,
		Cache:  htmlCache,
		Router: router,
		DB:     db,
		srv:    srv,
	}
}

// Session returns a request-scoped GORM session. The request context rides
// into every statement, so the cipher, the caller's identity and history
// markers all reach the model hooks and plugin callbacks.
func (s *Server) Session(ctx context.Context) *gorm.DB {
	if s.Cipher != nil {
		ctx = seal.WithCipher(ctx, s.Cipher)
	}
	return s.DB.WithContext(ctx)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
