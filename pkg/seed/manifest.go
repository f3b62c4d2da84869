package seed

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-sh/inkwell/pkg/model"
)

// Manifest is a declarative description of authors, blogs, posts and
// comments to load. Blogs and posts reference authors by email.
type Manifest struct {
	Authors []AuthorSpec `yaml:"authors"`
	Blogs   []BlogSpec   `yaml:"blogs"`
}

// AuthorSpec declares one author. The password is hashed before storage
// and never written anywhere else.
type AuthorSpec struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// BlogSpec declares one blog and its posts.
type BlogSpec struct {
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	Description string     `yaml:"description"`
	Rating      int        `yaml:"rating"`
	Owner       string     `yaml:"owner"`
	Posts       []PostSpec `yaml:"posts"`
}

// PostSpec declares one post.
type PostSpec struct {
	Title       string        `yaml:"title"`
	Slug        string        `yaml:"slug"`
	Content     string        `yaml:"content"`
	Status      string        `yaml:"status"`
	Author      string        `yaml:"author"`
	PublishedAt *time.Time    `yaml:"published_at"`
	Tags        []string      `yaml:"tags"`
	Comments    []CommentSpec `yaml:"comments"`
}

// CommentSpec declares one comment.
type CommentSpec struct {
	Author string `yaml:"author"`
	Body   string `yaml:"body"`
}

// Parse reads and validates a manifest. Unknown fields are rejected, as
// are dangling author references, duplicate slugs and bad statuses.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	emails := make(map[string]bool, len(m.Authors))
	for i, a := range m.Authors {
		if a.Email == "" {
			return fmt.Errorf("author %d has no email", i)
		}
		if a.Name == "" {
			return fmt.Errorf("author %q has no name", a.Email)
		}
		if emails[a.Email] {
			return fmt.Errorf("author %q declared twice", a.Email)
		}
		emails[a.Email] = true
	}

	blogSlugs := make(map[string]bool, len(m.Blogs))
	for _, b := range m.Blogs {
		if b.Name == "" {
			return fmt.Errorf("blog with owner %q has no name", b.Owner)
		}
		slug := b.Slug
		if slug == "" {
			slug = model.Slugify(b.Name)
		}
		if blogSlugs[slug] {
			return fmt.Errorf("blog slug %q declared twice", slug)
		}
		blogSlugs[slug] = true

		if !emails[b.Owner] {
			return fmt.Errorf("blog %q references unknown owner %q", b.Name, b.Owner)
		}
		if b.Rating < 0 || b.Rating > 5 {
			return fmt.Errorf("blog %q rating must be 0..5, got %d", b.Name, b.Rating)
		}

		postSlugs := make(map[string]bool, len(b.Posts))
		for _, p := range b.Posts {
			if p.Title == "" {
				return fmt.Errorf("post in blog %q has no title", b.Name)
			}
			pslug := p.Slug
			if pslug == "" {
				pslug = model.Slugify(p.Title)
			}
			if postSlugs[pslug] {
				return fmt.Errorf("post slug %q declared twice in blog %q", pslug, b.Name)
			}
			postSlugs[pslug] = true

			if !emails[p.Author] {
				return fmt.Errorf("post %q references unknown author %q", p.Title, p.Author)
			}
			if _, err := model.StatusString(p.Status); err != nil {
				return fmt.Errorf("post %q has invalid status %q", p.Title, p.Status)
			}
		}
	}

	return nil
}
