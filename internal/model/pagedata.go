package model

import (
	"net/http"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/session"
	"github.com/debemdeboas/blogfront/internal/theme"
)

// PageData is shared by every page template.
type PageData struct {
	SiteName    string
	SiteTagline string

	PageURL string

	Theme *theme.Context

	LoggedIn bool
	Username string

	// Alert is the single message shown at the top of the page.
	Alert string
}

func NewPageData(r *http.Request) *PageData {
	pd := &PageData{
		PageURL: r.URL.Path,
		Theme:   theme.FromRequest(r),
		Alert:   r.URL.Query().Get(config.QueryMessage),
	}

	if config.AppConfig != nil {
		pd.SiteName = config.AppConfig.Site.Name
		pd.SiteTagline = config.AppConfig.Site.Tagline
	}

	if sess, ok := session.FromContext(r.Context()); ok {
		pd.LoggedIn = true
		pd.Username = sess.Username
	}
	return pd
}

// IsActive reports whether path is the current page, for the sidebar.
func (pd *PageData) IsActive(path string) bool {
	return pd.PageURL == path
}
