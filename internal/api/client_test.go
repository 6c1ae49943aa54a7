package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
	"github.com/debemdeboas/blogfront/internal/model"
)

// recorded is what the fake backend saw for the last request.
type recorded struct {
	method string
	path   string
	auth   string
	ctype  string
	body   []byte
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *recorded, *int32) {
	t.Helper()

	rec := &recorded{}
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get(config.HAuthorization)
		rec.ctype = r.Header.Get(config.HCType)
		rec.body, _ = io.ReadAll(r.Body)

		w.Header().Set(config.HCType, config.CTypeJSON)
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec, &hits
}

func TestNew(t *testing.T) {
	c := New("http://backend:8000/")
	if c.BaseURL() != "http://backend:8000" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", c.BaseURL())
	}
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, c.http.Timeout)
	}

	c = New("http://backend", WithTimeout(3*time.Second))
	if c.http.Timeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", c.http.Timeout)
	}

	hc := &http.Client{}
	c = New("http://backend", WithHTTPClient(hc))
	if c.http != hc {
		t.Error("Expected custom http client to be used")
	}
}

func TestImageURL(t *testing.T) {
	c := New("http://localhost:8000")

	testCases := []struct {
		path     string
		expected string
	}{
		{path: "", expected: ""},
		{path: "/uploads/images/a.jpg", expected: "http://localhost:8000/uploads/images/a.jpg"},
		{path: "uploads/images/a.jpg", expected: "http://localhost:8000/uploads/images/a.jpg"},
		{path: "https://cdn.example.com/a.jpg", expected: "https://cdn.example.com/a.jpg"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := c.ImageURL(tc.path); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestAuthenticatedCallsWithoutToken(t *testing.T) {
	srv, _, hits := newBackend(t, http.StatusOK, `{}`)
	c := New(srv.URL)
	ctx := context.Background()

	calls := map[string]func() error{
		"Protected": func() error {
			_, err := c.Protected(ctx, "")
			return err
		},
		"ListOwnPosts": func() error {
			_, err := c.ListOwnPosts(ctx, "")
			return err
		},
		"CreatePost": func() error {
			_, err := c.CreatePost(ctx, "", draft.CreatePostRequest{Title: "abc"})
			return err
		},
		"DeletePost": func() error {
			_, err := c.DeletePost(ctx, "", 1)
			return err
		},
		"RestorePost": func() error {
			_, err := c.RestorePost(ctx, "", 1)
			return err
		},
	}

	for name, fn := range calls {
		t.Run(name, func(t *testing.T) {
			if err := fn(); !errors.Is(err, ErrNoToken) {
				t.Errorf("Expected ErrNoToken, got %v", err)
			}
		})
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("Expected no backend requests, got %d", n)
	}
}

func TestCreatePost(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `{"message":"Blog created successfully","blog_id":42}`)
	c := New(srv.URL)

	d := draft.Draft{
		Title:       "Hello",
		Description: "desc",
		Contents:    "body",
		Tags:        "tech, programming, AI",
	}
	resp, err := c.CreatePost(context.Background(), "tok", d.Payload())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.BlogID != 42 {
		t.Errorf("Expected blog id 42, got %d", resp.BlogID)
	}
	if rec.method != http.MethodPost || rec.path != "/blogs/create" {
		t.Errorf("Expected POST /blogs/create, got %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer tok" {
		t.Errorf("Expected bearer header, got %q", rec.auth)
	}
	if rec.ctype != config.CTypeJSON {
		t.Errorf("Expected JSON content type, got %q", rec.ctype)
	}

	var sent map[string]any
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if v, ok := sent["image"]; !ok || v != nil {
		t.Errorf("Expected null image, got %v", v)
	}
	tags, _ := sent["tags"].([]any)
	if len(tags) != 3 || tags[1] != "programming" {
		t.Errorf("Expected parsed tags, got %v", sent["tags"])
	}
}

func TestListPosts(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `[
		{"id":1,"user_id":7,"title":"First","description":"d","tags":["go"],"contents":"c","image":"/uploads/images/x.jpg","deleted_flag":false,"created_at":"2024-05-01T10:20:30.123456"},
		{"id":2,"user_id":7,"title":"Second","description":null,"tags":null,"contents":null,"image":null}
	]`)
	c := New(srv.URL)

	posts, err := c.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.path != "/blogs/" || rec.auth != "" {
		t.Errorf("Expected unauthenticated GET /blogs/, got %s auth=%q", rec.path, rec.auth)
	}
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != 1 || posts[0].Image != "/uploads/images/x.jpg" || posts[0].Tags[0] != "go" {
		t.Errorf("Unexpected first post: %+v", posts[0])
	}
	if posts[0].CreatedDate() != "May 1, 2024" {
		t.Errorf("Expected parsed date, got %q", posts[0].CreatedDate())
	}
	if posts[1].Image != "" || posts[1].Description != "" {
		t.Errorf("Expected nulls to decode as empty, got %+v", posts[1])
	}
}

func TestListPostsEmpty(t *testing.T) {
	srv, _, _ := newBackend(t, http.StatusOK, `[]`)

	posts, err := New(srv.URL).ListPosts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", posts)
	}
}

func TestListOwnPosts(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `[{"id":3,"title":"Mine"}]`)

	posts, err := New(srv.URL).ListOwnPosts(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.path != "/blogs/my" || rec.auth != "Bearer abc" {
		t.Errorf("Expected authenticated GET /blogs/my, got %s auth=%q", rec.path, rec.auth)
	}
	if len(posts) != 1 || posts[0].Title != "Mine" {
		t.Errorf("Unexpected posts: %+v", posts)
	}
}

func TestErrorDecoding(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "Detail string",
			status:   http.StatusBadRequest,
			body:     `{"detail":"Invalid email or password"}`,
			expected: "Invalid email or password",
		},
		{
			name:     "Detail list",
			status:   http.StatusUnprocessableEntity,
			body:     `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"}]}`,
			expected: "value is not a valid email address",
		},
		{
			name:     "Message field",
			status:   http.StatusInternalServerError,
			body:     `{"message":"Database down"}`,
			expected: "Database down",
		},
		{
			name:     "Message wins over detail",
			status:   http.StatusBadRequest,
			body:     `{"message":"first","detail":"second"}`,
			expected: "first",
		},
		{
			name:     "Non JSON body",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			expected: config.ErrFetchBlogs,
		},
		{
			name:     "Empty detail",
			status:   http.StatusInternalServerError,
			body:     `{"detail":""}`,
			expected: config.ErrFetchBlogs,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _, _ := newBackend(t, tc.status, tc.body)

			_, err := New(srv.URL).ListPosts(context.Background())

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if apiErr.Status != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, apiErr.Status)
			}
			if apiErr.Message != tc.expected {
				t.Errorf("Expected message %q, got %q", tc.expected, apiErr.Message)
			}
			if got := UserMessage(err, "fallback"); got != tc.expected {
				t.Errorf("Expected user message %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGetPostNotFound(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusNotFound, `{"detail":"Blog not found"}`)

	_, err := New(srv.URL).GetPost(context.Background(), model.PostID(99))
	if !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if rec.path != "/blogs/99" {
		t.Errorf("Expected /blogs/99, got %s", rec.path)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListPosts(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("Expected transport error, got *Error %v", apiErr)
	}
	if got := UserMessage(err, config.ErrFetchBlogs); got != config.ErrFetchBlogs {
		t.Errorf("Expected fallback message, got %q", got)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	testCases := []struct {
		name       string
		restore    bool
		body       string
		path       string
		expectErr  string
		expectNone bool
	}{
		{
			name:       "Delete succeeds",
			body:       `{"success":true}`,
			path:       "/blogs/delete/5",
			expectNone: true,
		},
		{
			name:      "Delete not owned",
			body:      `{"success":false,"message":"Blog with id 5 not found or not owned by user 1 or already deleted."}`,
			path:      "/blogs/delete/5",
			expectErr: "Blog with id 5 not found or not owned by user 1 or already deleted.",
		},
		{
			name:       "Restore succeeds",
			restore:    true,
			body:       `{"success":true}`,
			path:       "/blogs/restore/5",
			expectNone: true,
		},
		{
			name:      "Restore fails without message",
			restore:   true,
			body:      `{"success":false}`,
			path:      "/blogs/restore/5",
			expectErr: config.ErrRestoreBlog,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, rec, _ := newBackend(t, http.StatusOK, tc.body)
			c := New(srv.URL)

			var err error
			if tc.restore {
				_, err = c.RestorePost(context.Background(), "tok", 5)
			} else {
				_, err = c.DeletePost(context.Background(), "tok", 5)
			}

			if rec.method != http.MethodPut || rec.path != tc.path {
				t.Errorf("Expected PUT %s, got %s %s", tc.path, rec.method, rec.path)
			}
			if tc.expectNone {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if got := UserMessage(err, "fallback"); got != tc.expectErr {
				t.Errorf("Expected %q, got %q (err=%v)", tc.expectErr, got, err)
			}
		})
	}
}
