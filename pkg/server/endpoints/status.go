package endpoints

import (
	"net/http"
	"os"

	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/server"
)

// StatusResponse is the body served at the API root.
type StatusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth()).Methods("GET")
	s.Router.HandleFunc("/ready", handleReady(s, s.Cache)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("INKWELL_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Service: "inkwell",
			Version: version,
		})
	}
}

// handleHealth answers as soon as the process serves traffic; it makes no
// dependency checks.
func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleReady verifies the database, and the cache when one is attached,
// before reporting ready.
func handleReady(p Provider, htmlCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Health(r.Context()).CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "error",
				"error":  "database connectivity check failed",
			})
			return
		}
		if err := htmlCache.Ping(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "error",
				"error":  "cache connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
