package api

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/go-playground/validator/v10"
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Message is the generic {"message": ...} answer. Success is only sent by
// the delete and restore endpoints.
type Message struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

// ValidationError lists the fields of an auth request that failed local
// validation, keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "api: invalid request: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	default:
		return label + " is invalid"
	}
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// SignUp creates an account. The backend does not log the user in.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (Message, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return Message{}, err
	}

	var out Message
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/signup",
		body:     req,
		fallback: config.ErrGeneric,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return LoginResponse{}, err
	}

	var out LoginResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/login",
		body:     req,
		fallback: config.ErrGeneric,
	}, &out)
	return out, err
}

// Protected calls the backend's token probe.
func (c *Client) Protected(ctx context.Context, token string) (Message, error) {
	var out Message
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/protected",
		token:    token,
		authed:   true,
		fallback: config.ErrProtectedProbe,
	}, &out)
	return out, err
}
