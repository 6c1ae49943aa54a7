package session

import (
	"crypto/sha256"
	"net/http"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	keyAccessToken = "access_token"
	keyUsername    = "username"
)

// CookieRepository keeps the whole session in a signed and encrypted
// cookie.
type CookieRepository struct {
	store *sessions.CookieStore
}

// NewCookieRepository derives the cookie keys from secret. With an empty
// secret a random key is used and sessions do not survive a restart.
func NewCookieRepository(secret string, opts Options) *CookieRepository {
	var hashKey, blockKey []byte
	if secret == "" {
		sessionLogger.Warn().Msg("No session secret configured, using a random key")
		hashKey = securecookie.GenerateRandomKey(32)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		h := sha256.Sum256([]byte("hash:" + secret))
		b := sha256.Sum256([]byte("block:" + secret))
		hashKey, blockKey = h[:], b[:]
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   opts.MaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
	}
	return &CookieRepository{store: store}
}

func (c *CookieRepository) Get(r *http.Request) (Session, error) {
	sess, err := c.store.Get(r, config.CookieSession)
	if err != nil {
		// Tampered or signed with an old key.
		sessionLogger.Debug().Err(err).Msg("Discarding unreadable session cookie")
		return Session{}, ErrNoSession
	}

	token, _ := sess.Values[keyAccessToken].(string)
	if token == "" {
		return Session{}, ErrNoSession
	}
	username, _ := sess.Values[keyUsername].(string)
	return Session{Token: token, Username: username}, nil
}

func (c *CookieRepository) Set(w http.ResponseWriter, r *http.Request, s Session) error {
	// A broken cookie still yields a usable new session.
	sess, _ := c.store.New(r, config.CookieSession)
	sess.Values[keyAccessToken] = s.Token
	sess.Values[keyUsername] = s.Username
	return sess.Save(r, w)
}

func (c *CookieRepository) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.New(r, config.CookieSession)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
