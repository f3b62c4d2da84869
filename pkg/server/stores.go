package server

import (
	"context"

	"github.com/inkwell-sh/inkwell/pkg/store"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// Store accessors hand out request-scoped stores. Each one rides the
// request context so encryption, identity and history markers propagate.

func (s *Server) Authors(ctx context.Context) store.AuthorsStore {
	return storegorm.NewAuthorsStore(s.Session(ctx))
}

func (s *Server) Blogs(ctx context.Context) store.BlogsStore {
	return storegorm.NewBlogsStore(s.Session(ctx))
}

func (s *Server) Posts(ctx context.Context) store.PostsStore {
	return storegorm.NewPostsStore(s.Session(ctx))
}

func (s *Server) Tags(ctx context.Context) store.TagsStore {
	return storegorm.NewTagsStore(s.Session(ctx))
}

func (s *Server) Comments(ctx context.Context) store.CommentsStore {
	return storegorm.NewCommentsStore(s.Session(ctx))
}

func (s *Server) Revisions(ctx context.Context) store.RevisionsStore {
	return storegorm.NewRevisionsStore(s.Session(ctx))
}

func (s *Server) Health(ctx context.Context) store.HealthStore {
	return storegorm.NewHealthStore(s.Session(ctx))
}
