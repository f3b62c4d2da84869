package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/store"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^an Inkwell server is running$`, s.anInkwellServerIsRunning)
	sc.Step(`^an author "([^"]*)" exists with password "([^"]*)"$`, s.anAuthorExistsWithPassword)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogInWithPassword)

	// Blog and post steps
	sc.Step(`^I create a blog "([^"]*)" named "([^"]*)"$`, s.iCreateBlog)
	sc.Step(`^I create a post "([^"]*)" in blog "([^"]*)" with content:$`, s.iCreatePost)
	sc.Step(`^I update the post "([^"]*)" in blog "([^"]*)" setting content to "([^"]*)"$`, s.iUpdatePostContent)
	sc.Step(`^I publish the post "([^"]*)" in blog "([^"]*)"$`, s.iPublishPost)
	sc.Step(`^I fetch the post "([^"]*)" in blog "([^"]*)"$`, s.iFetchPost)
	sc.Step(`^I fetch the post "([^"]*)" in blog "([^"]*)" rendered as HTML$`, s.iFetchPostRendered)
	sc.Step(`^I delete the post "([^"]*)" in blog "([^"]*)"$`, s.iDeletePost)

	// Revision steps
	sc.Step(`^the post "([^"]*)" in blog "([^"]*)" should have (\d+) revisions$`, s.postShouldHaveRevisions)
	sc.Step(`^I restore revision (\d+) of the post "([^"]*)" in blog "([^"]*)"$`, s.iRestoreRevision)

	// Comment steps
	sc.Step(`^"([^"]*)" comments "([^"]*)" on the post "([^"]*)" in blog "([^"]*)"$`, s.commentOnPost)
	sc.Step(`^the post "([^"]*)" in blog "([^"]*)" should have (\d+) comments$`, s.postShouldHaveComments)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, s.theResponseFieldShouldContain)
}

func (s *StepsContext) anInkwellServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAuthorExistsWithPassword(email, password string) error {
	digest, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	authors := storegorm.NewAuthorsStore(s.tc.DB)
	if _, err := authors.GetAuthorByEmail(email); err == nil {
		return nil
	}
	author := &store.Author{Name: email, Email: email, PasswordDigest: digest}
	if err := authors.CreateAuthor(author); err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		return err
	}
	return authors.SetAPIKey(author.ID, key, time.Now().UTC())
}

func (s *StepsContext) iLogInWithPassword(email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := s.request("POST", "/authn/login", body, ""); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	s.authToken = resp.Token
	return nil
}

func (s *StepsContext) iCreateBlog(slug, name string) error {
	return s.request("POST", "/blogs", map[string]string{"name": name, "slug": slug}, "")
}

func (s *StepsContext) iCreatePost(slug, blogSlug string, content *godog.DocString) error {
	body := map[string]interface{}{
		"title":   slug,
		"slug":    slug,
		"content": content.Content,
	}
	return s.request("POST", "/blogs/"+blogSlug+"/posts", body, "")
}

func (s *StepsContext) iUpdatePostContent(slug, blogSlug, content string) error {
	etag, err := s.currentETag(blogSlug, slug)
	if err != nil {
		return err
	}
	path := "/blogs/" + blogSlug + "/posts/" + slug
	return s.request("PATCH", path, map[string]string{"content": content}, etag)
}

func (s *StepsContext) iPublishPost(slug, blogSlug string) error {
	etag, err := s.currentETag(blogSlug, slug)
	if err != nil {
		return err
	}
	path := "/blogs/" + blogSlug + "/posts/" + slug + "/publish"
	return s.request("POST", path, nil, etag)
}

func (s *StepsContext) iFetchPost(slug, blogSlug string) error {
	return s.request("GET", "/blogs/"+blogSlug+"/posts/"+slug, nil, "")
}

func (s *StepsContext) iFetchPostRendered(slug, blogSlug string) error {
	return s.request("GET", "/blogs/"+blogSlug+"/posts/"+slug+"?render=html", nil, "")
}

func (s *StepsContext) iDeletePost(slug, blogSlug string) error {
	return s.request("DELETE", "/blogs/"+blogSlug+"/posts/"+slug, nil, "")
}

func (s *StepsContext) postShouldHaveRevisions(slug, blogSlug string, count int) error {
	path := "/blogs/" + blogSlug + "/posts/" + slug + "/revisions"
	if err := s.request("GET", path, nil, ""); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	if resp.Total != count {
		return fmt.Errorf("expected %d revisions, got %d", count, resp.Total)
	}
	return nil
}

func (s *StepsContext) iRestoreRevision(number int, slug, blogSlug string) error {
	etag, err := s.currentETag(blogSlug, slug)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/blogs/%s/posts/%s/revisions/%d/restore", blogSlug, slug, number)
	return s.request("POST", path, nil, etag)
}

func (s *StepsContext) commentOnPost(authorName, body, slug, blogSlug string) error {
	path := "/blogs/" + blogSlug + "/posts/" + slug + "/comments"
	return s.request("POST", path, map[string]string{"author_name": authorName, "body": body}, "")
}

func (s *StepsContext) postShouldHaveComments(slug, blogSlug string, count int) error {
	path := "/blogs/" + blogSlug + "/posts/" + slug + "/comments"
	if err := s.request("GET", path, nil, ""); err != nil {
		return err
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	if resp.Total != count {
		return fmt.Errorf("expected %d comments, got %d", count, resp.Total)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	actual, err := s.responseField(field)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("expected field %q to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldContain(field, want string) error {
	actual, err := s.responseField(field)
	if err != nil {
		return err
	}
	if !bytes.Contains([]byte(actual), []byte(want)) {
		return fmt.Errorf("expected field %q to contain %q, got %q", field, want, actual)
	}
	return nil
}

func (s *StepsContext) responseField(field string) (string, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return "", err
	}
	value, ok := body[field]
	if !ok {
		return "", fmt.Errorf("field %q not in response: %s", field, s.responseBody)
	}
	return fmt.Sprintf("%v", value), nil
}

// currentETag re-reads the post to learn the lock version for If-Match.
func (s *StepsContext) currentETag(blogSlug, slug string) (string, error) {
	resp, err := s.do("GET", "/blogs/"+blogSlug+"/posts/"+slug, nil, "")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to read post for etag, status %d", resp.StatusCode)
	}
	return resp.Header.Get("ETag"), nil
}

// request performs an HTTP call and records the response for later steps.
func (s *StepsContext) request(method, path string, body interface{}, ifMatch string) error {
	resp, err := s.do(method, path, body, ifMatch)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.response = resp
	s.responseBody = data
	return nil
}

func (s *StepsContext) do(method, path string, body interface{}, ifMatch string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}
	return s.tc.HTTPClient.Do(req)
}
