package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// Middleware loads the session once per request and makes it available
// through FromContext.
func Middleware(repo Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := repo.Get(r)
			if err != nil {
				if !errors.Is(err, ErrNoSession) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load session")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the session loaded by Middleware.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok && sess.LoggedIn()
}
