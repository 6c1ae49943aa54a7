package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned by authenticated calls made without a token. No
// request is sent.
var ErrNoToken = errors.New("api: no token")

// Error is a non-success answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// errorBody covers both {"message": ...} and the {"detail": ...} envelope,
// where detail is a string or a list of {"msg": ...} entries.
type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func (b errorBody) text() string {
	if msg := strings.TrimSpace(b.Message); msg != "" {
		return msg
	}
	if len(b.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(b.Detail, &list); err == nil {
		for _, d := range list {
			if msg := strings.TrimSpace(d.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func newError(status int, raw []byte, fallback string) *Error {
	var body errorBody
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = body.text()
	}
	if msg == "" {
		msg = fallback
	}
	return &Error{Status: status, Message: msg}
}

// UserMessage extracts the text to show the user from any error returned by the
// client, using fallback for transport failures.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
