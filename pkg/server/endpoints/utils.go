package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/inkwell-sh/inkwell/pkg/identity"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Provider hands out request-scoped stores. The server implements it; the
// handler tests swap in mocks.
type Provider interface {
	Authors(ctx context.Context) store.AuthorsStore
	Blogs(ctx context.Context) store.BlogsStore
	Posts(ctx context.Context) store.PostsStore
	Tags(ctx context.Context) store.TagsStore
	Comments(ctx context.Context) store.CommentsStore
	Revisions(ctx context.Context) store.RevisionsStore
	Health(ctx context.Context) store.HealthStore
}

// requireIdentity pulls the authenticated caller off the context. The
// bearer middleware guarantees it on authed routes; this guards handlers
// called outside that chain.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return id, true
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps store sentinel errors to HTTP statuses.
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrStaleVersion):
		respondWithError(w, http.StatusPreconditionFailed, "version is stale, re-read and retry")
	case errors.Is(err, store.ErrDuplicate):
		respondWithError(w, http.StatusConflict, "already exists")
	case errors.Is(err, store.ErrBadField),
		errors.Is(err, query.ErrBadSort),
		errors.Is(err, query.ErrBadCursor):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireVersion reads the If-Match header carrying the lock version the
// client last saw. Missing returns 428, malformed 400; writes go ahead
// only with a parseable version.
func requireVersion(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.Header.Get("If-Match")
	if raw == "" {
		respondWithError(w, http.StatusPreconditionRequired, "If-Match header required")
		return 0, false
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		respondWithError(w, http.StatusBadRequest, "malformed If-Match header")
		return 0, false
	}
	return version, true
}

// setVersionHeader exposes the record's lock version as a strong ETag.
func setVersionHeader(w http.ResponseWriter, version int) {
	w.Header().Set("ETag", `"`+strconv.Itoa(version)+`"`)
}

// parsePage reads page/per_page query parameters, normalized against the
// configured bounds.
func parsePage(r *http.Request, defaultSize, maxSize int) query.Page {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return query.Page{Number: number, Size: size}.Normalize(defaultSize, maxSize)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}
