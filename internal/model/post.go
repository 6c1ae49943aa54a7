// Package model defines the data shared between the backend client, the page
// controllers and the templates.
package model

import (
	"html/template"
	"strconv"
	"time"
)

type PostID int64

func (id PostID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParsePostID parses a post id taken from a URL path.
func ParsePostID(s string) (PostID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return PostID(n), nil
}

type UserID int64

// Post is a blog post as returned by the backend.
type Post struct {
	ID          PostID   `json:"id"`
	UserID      UserID   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Contents    string   `json:"contents"`
	// Image is a path relative to the backend base URL, empty when the post
	// has no image.
	Image       string `json:"image"`
	DeletedFlag bool   `json:"deleted_flag"`
	// CreatedAt is kept as sent. The backend emits timestamps without a
	// zone offset, which time.Time will not unmarshal.
	CreatedAt string `json:"created_at"`

	// Filled in by the page controllers.
	ImageURL string        `json:"-"`
	Rendered template.HTML `json:"-"`
	Excerpt  string        `json:"-"`
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Created parses CreatedAt. The zero time is returned when it is missing or
// in an unknown format.
func (p Post) Created() time.Time {
	if p.CreatedAt == "" {
		return time.Time{}
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, p.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CreatedDate is the human readable creation date, empty when unknown.
func (p Post) CreatedDate() string {
	t := p.Created()
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func (p Post) HasImage() bool {
	return p.ImageURL != ""
}
