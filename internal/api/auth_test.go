package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestLogin(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `{
		"message":"Login successful",
		"access_token":"jwt-token",
		"token_type":"bearer",
		"user":{"id":1,"username":"alice","email":"a@example.com"}
	}`)

	resp, err := New(srv.URL).Login(context.Background(), LoginRequest{Email: " a@example.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.AccessToken != "jwt-token" || resp.User.Username != "alice" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if rec.method != http.MethodPost || rec.path != "/login" {
		t.Errorf("Expected POST /login, got %s %s", rec.method, rec.path)
	}

	var sent LoginRequest
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if sent.Email != "a@example.com" {
		t.Errorf("Expected trimmed email, got %q", sent.Email)
	}
}

func TestLoginBackendError(t *testing.T) {
	srv, _, _ := newBackend(t, http.StatusBadRequest, `{"detail":"Invalid email or password"}`)

	_, err := New(srv.URL).Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "bad"})
	if got := UserMessage(err, "x"); got != "Invalid email or password" {
		t.Errorf("Expected backend message, got %q", got)
	}
}

func TestSignUp(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `{"message":"User created successfully"}`)

	msg, err := New(srv.URL).SignUp(context.Background(), SignUpRequest{
		Username: "alice",
		Email:    "a@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if msg.Message != "User created successfully" {
		t.Errorf("Expected message, got %q", msg.Message)
	}
	if rec.path != "/signup" {
		t.Errorf("Expected /signup, got %s", rec.path)
	}
}

func TestAuthRequestValidation(t *testing.T) {
	srv, _, hits := newBackend(t, http.StatusOK, `{}`)
	c := New(srv.URL)

	testCases := []struct {
		name     string
		call     func() error
		expected map[string]string
	}{
		{
			name: "Empty login",
			call: func() error {
				_, err := c.Login(context.Background(), LoginRequest{})
				return err
			},
			expected: map[string]string{
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name: "Bad email",
			call: func() error {
				_, err := c.Login(context.Background(), LoginRequest{Email: "nope", Password: "pw"})
				return err
			},
			expected: map[string]string{
				"email": "Please enter a valid email address",
			},
		},
		{
			name: "Signup without username",
			call: func() error {
				_, err := c.SignUp(context.Background(), SignUpRequest{Email: "a@example.com", Password: "pw"})
				return err
			},
			expected: map[string]string{
				"username": "Username is required",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tc.expected) {
				t.Errorf("Expected %d fields, got %v", len(tc.expected), ve.Fields)
			}
			for f, msg := range tc.expected {
				if ve.Fields[f] != msg {
					t.Errorf("Expected %s error %q, got %q", f, msg, ve.Fields[f])
				}
			}
		})
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("Expected no backend requests, got %d", n)
	}
}

func TestProtected(t *testing.T) {
	srv, rec, _ := newBackend(t, http.StatusOK, `{"message":"Hello a@example.com! This route is protected."}`)

	msg, err := New(srv.URL).Protected(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.auth != "Bearer tok" || rec.method != http.MethodGet {
		t.Errorf("Expected authenticated GET, got %s auth=%q", rec.method, rec.auth)
	}
	if msg.Message != "Hello a@example.com! This route is protected." {
		t.Errorf("Unexpected message %q", msg.Message)
	}
}

func TestProtectedExpiredToken(t *testing.T) {
	srv, _, _ := newBackend(t, http.StatusUnauthorized, `{"detail":"Invalid or expired token"}`)

	_, err := New(srv.URL).Protected(context.Background(), "old")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 *Error, got %v", err)
	}
	if apiErr.Message != "Invalid or expired token" {
		t.Errorf("Unexpected message %q", apiErr.Message)
	}
}
