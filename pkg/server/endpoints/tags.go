package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/query"
	"github.com/inkwell-sh/inkwell/pkg/render"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/store"
)

// TagResponse is the JSON shape of a tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagListResponse lists every tag in use, ordered by name.
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}

// RegisterTagsEndpoints registers the tag read endpoints. Tags come into
// being through posts, so there are no write endpoints here.
func RegisterTagsEndpoints(s *server.Server) {
	s.Router.HandleFunc("/tags", handleListTags(s)).Methods("GET")
	s.Router.HandleFunc("/tags/{name}", handleGetTag(s)).Methods("GET")
	s.Router.HandleFunc("/tags/{name}/posts", handleListTagPosts(s)).Methods("GET")
}

func handleListTags(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := p.Tags(r.Context()).ListTags()
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := TagListResponse{Tags: make([]TagResponse, len(tags))}
		for i, tag := range tags {
			resp.Tags[i] = TagResponse{ID: tag.ID, Name: tag.Name}
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleGetTag(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := p.Tags(r.Context()).GetTagByName(mux.Vars(r)["name"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, TagResponse{ID: tag.ID, Name: tag.Name})
	}
}

// handleListTagPosts lists published posts carrying the tag, across all
// blogs.
func handleListTagPosts(p Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := p.Tags(r.Context()).GetTagByName(mux.Vars(r)["name"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		cfg := config.Get()
		page, err := p.Posts(r.Context()).ListPosts(store.ListPostsOptions{
			Filter: store.PostFilter{Tag: tag.Name, Status: "published"},
			Sort:   query.ParseSort(r.URL.Query().Get("sort")),
			Page:   parsePage(r, cfg.PageSizeDefault, cfg.PageSizeMax),
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		resp := PostListResponse{
			Posts:      make([]PostResponse, len(page.Items)),
			Total:      page.Total,
			NextCursor: page.NextCursor,
		}
		for i := range page.Items {
			item := toPostResponse(&page.Items[i])
			item.Excerpt = render.Excerpt(item.Content, excerptWords)
			item.Content = ""
			resp.Posts[i] = item
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}
