// Package draft holds the create-post form state and the rules that decide
// whether it can be submitted.
package draft

import (
	"strings"
	"unicode/utf8"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContents    = "contents"
	FieldTags        = "tags"
)

const (
	TitleMinLength       = 3
	DescriptionMaxLength = 200
	MaxTags              = 5
)

const (
	MsgTitleRequired       = "Title is required"
	MsgTitleTooShort       = "Title must be at least 3 characters long"
	MsgDescriptionRequired = "Description is required"
	MsgDescriptionTooLong  = "Description must be under 200 characters"
	MsgContentsRequired    = "Content is required"
	MsgTooManyTags         = "You can only add up to 5 tags"
)

// Draft is the not-yet-submitted post as typed into the form.
type Draft struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Contents    string `yaml:"contents"`
	// Tags is the raw comma separated input.
	Tags string `yaml:"tags"`
	// Image is the base64 encoded image, empty when none was chosen.
	Image string `yaml:"-"`
}

// Result maps a field name to its error message. An empty Result means the
// draft can be submitted.
type Result map[string]string

func (r Result) OK() bool {
	return len(r) == 0
}

func (r Result) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Validate runs every field rule and collects all failures.
func Validate(d Draft) Result {
	res := Result{}

	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		res[FieldTitle] = MsgTitleRequired
	case utf8.RuneCountInString(title) < TitleMinLength:
		res[FieldTitle] = MsgTitleTooShort
	}

	switch {
	case strings.TrimSpace(d.Description) == "":
		res[FieldDescription] = MsgDescriptionRequired
	case utf8.RuneCountInString(d.Description) > DescriptionMaxLength:
		res[FieldDescription] = MsgDescriptionTooLong
	}

	if strings.TrimSpace(d.Contents) == "" {
		res[FieldContents] = MsgContentsRequired
	}

	if d.Tags != "" && len(ParseTags(d.Tags)) > MaxTags {
		res[FieldTags] = MsgTooManyTags
	}

	return res
}

// ParseTags splits comma separated input into trimmed, non-empty tags,
// keeping their order.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CreatePostRequest is the JSON body sent to the backend's create endpoint.
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Contents    string   `json:"contents"`
	Image       *string  `json:"image"`
	Tags        []string `json:"tags"`
}

// Payload builds the request body. Fields are sent as typed; tags are parsed
// and an empty image is sent as null.
func (d Draft) Payload() CreatePostRequest {
	req := CreatePostRequest{
		Title:       d.Title,
		Description: d.Description,
		Contents:    d.Contents,
		Tags:        ParseTags(d.Tags),
	}
	if d.Image != "" {
		img := d.Image
		req.Image = &img
	}
	return req
}
