package session

import (
	"net/http"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/google/uuid"
)

// Server side stores only put a random id in the browser.

func readID(r *http.Request) (string, bool) {
	c, err := r.Cookie(config.CookieSessionID)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func writeID(w http.ResponseWriter, id string, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSessionID,
		Value:    id,
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireID(w http.ResponseWriter, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSessionID,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
