// Package session keeps the backend access token and username of the person
// using the browser.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/db"
	"github.com/rs/zerolog"
)

const (
	StoreCookie = "cookie"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

var ErrNoSession = errors.New("session: not logged in")

var sessionLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	sessionLogger = l
}

// Session is the logged in state. Token is forwarded to the backend as is.
type Session struct {
	Token    string
	Username string
}

func (s Session) LoggedIn() bool {
	return s.Token != ""
}

type Repository interface {
	// Get returns ErrNoSession when the request carries no session.
	Get(r *http.Request) (Session, error)
	Set(w http.ResponseWriter, r *http.Request, s Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Options control the cookie written by every repository.
type Options struct {
	MaxAge int
	Secure bool
}

func (o Options) ttl() time.Duration {
	return time.Duration(o.MaxAge) * time.Second
}

func OptionsFromConfig(c config.SessionConfig) Options {
	return Options{MaxAge: c.MaxAge, Secure: c.Secure}
}

// New builds the repository selected by the config. The returned close
// function releases the store's resources and is never nil.
func New(ctx context.Context, c config.SessionConfig) (Repository, func() error, error) {
	opts := OptionsFromConfig(c)
	noop := func() error { return nil }

	switch c.Store {
	case StoreCookie, "":
		return NewCookieRepository(c.Secret, opts), noop, nil
	case StoreMemory:
		return NewMemoryRepository(opts), noop, nil
	case StoreSQLite:
		sqlite := db.NewSQLite(c.DatabasePath)
		if err := sqlite.InitDb(ctx); err != nil {
			return nil, noop, fmt.Errorf("session store: %w", err)
		}
		repo := NewSQLiteRepository(sqlite, opts)
		if n, err := repo.Prune(ctx); err != nil {
			sessionLogger.Warn().Err(err).Msg("Failed to prune expired sessions")
		} else if n > 0 {
			sessionLogger.Info().Int64("count", n).Msg("Pruned expired sessions")
		}
		return repo, sqlite.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported session store %q", c.Store)
	}
}
