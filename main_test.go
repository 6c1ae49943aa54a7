package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
	"github.com/debemdeboas/blogfront/internal/model"
	"github.com/debemdeboas/blogfront/internal/session"
)

var errOffline = errors.New("offline")

// stubBackend serves a fixed feed and fails everything else.
type stubBackend struct {
	posts []model.Post
}

func (s stubBackend) SignUp(context.Context, api.SignUpRequest) (api.Message, error) {
	return api.Message{}, errOffline
}

func (s stubBackend) Login(context.Context, api.LoginRequest) (api.LoginResponse, error) {
	return api.LoginResponse{}, errOffline
}

func (s stubBackend) Protected(context.Context, string) (api.Message, error) {
	return api.Message{}, errOffline
}

func (s stubBackend) ListPosts(context.Context) ([]model.Post, error) {
	return append([]model.Post(nil), s.posts...), nil
}

func (s stubBackend) GetPost(_ context.Context, id model.PostID) (model.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Post{}, &api.Error{Status: http.StatusNotFound, Message: "Blog not found"}
}

func (s stubBackend) ListOwnPosts(context.Context, string) ([]model.Post, error) {
	return nil, errOffline
}

func (s stubBackend) CreatePost(context.Context, string, draft.CreatePostRequest) (api.CreatePostResponse, error) {
	return api.CreatePostResponse{}, errOffline
}

func (s stubBackend) DeletePost(context.Context, string, model.PostID) (api.Message, error) {
	return api.Message{}, errOffline
}

func (s stubBackend) RestorePost(context.Context, string, model.PostID) (api.Message, error) {
	return api.Message{}, errOffline
}

func (s stubBackend) ImageURL(path string) string {
	return path
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	backend := stubBackend{posts: []model.Post{
		{ID: 1, Title: "Stub post", Description: "d", Contents: "hello"},
	}}
	h, err := newServer(backend, session.NewMemoryRepository(session.Options{MaxAge: 60}), config.ContentConfig{
		HomePosts:     12,
		ExcerptLength: 100,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	return h
}

func TestServer(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		name         string
		path         string
		status       int
		contains     string
		cacheControl string
		secured      bool
	}{
		{
			name:         "home",
			path:         "/",
			status:       http.StatusOK,
			contains:     "Stub post",
			cacheControl: "no-cache",
			secured:      true,
		},
		{
			name:         "post",
			path:         "/blogs/1",
			status:       http.StatusOK,
			contains:     "hello",
			cacheControl: "no-cache",
			secured:      true,
		},
		{
			name:         "missing post",
			path:         "/blogs/2",
			status:       http.StatusNotFound,
			contains:     "Blog not found.",
			cacheControl: "no-cache",
			secured:      true,
		},
		{
			name:         "stylesheet",
			path:         "/static/style.css",
			status:       http.StatusOK,
			contains:     "dark-theme",
			cacheControl: "public, max-age=3600",
			secured:      true,
		},
		{
			name:         "robots",
			path:         "/robots.txt",
			status:       http.StatusOK,
			contains:     "User-agent: *",
			cacheControl: "no-cache",
			secured:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, res.StatusCode)
			}
			body, _ := io.ReadAll(res.Body)
			if !strings.Contains(string(body), tc.contains) {
				t.Errorf("Expected body to contain %q", tc.contains)
			}
			if cc := res.Header.Get(config.HCacheControl); cc != tc.cacheControl {
				t.Errorf("Expected Cache-Control %q, got %q", tc.cacheControl, cc)
			}
			if secured := res.Header.Get("X-Frame-Options") == "deny"; secured != tc.secured {
				t.Errorf("Expected secure headers %v, got %v", tc.secured, secured)
			}
			if res.Header.Get(config.HRequestID) == "" {
				t.Error("Expected a request id header")
			}
		})
	}
}

func TestStaticETag(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	if etag := rec.Header().Get(config.HETag); len(etag) != 64 {
		t.Errorf("Expected a sha256 ETag, got %q", etag)
	}
}

func TestGzip(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
		t.Errorf("Expected gzip encoding, got %q", enc)
	}
}

func TestSecureHeaders(t *testing.T) {
	h := secureHeaders(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Frame-Options":        "deny",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "same-origin",
	}
	for k, v := range expected {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("Expected %s %q, got %q", k, v, got)
		}
	}
}
