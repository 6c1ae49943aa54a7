// Package theme resolves the page theme of a request and builds the matching
// syntax highlighting CSS.
package theme

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/blogfront/internal/cache"
	"github.com/debemdeboas/blogfront/internal/config"
)

const cookieMaxAge = 365 * 24 * 60 * 60

// Context is the theme of a single request. It is created from the theme
// cookie and changed only through Toggle.
type Context struct {
	name           string
	allowSwitching bool
	syntaxDark     string
	syntaxLight    string
}

// FromRequest reads the theme cookie, falling back to the configured default
// when it is missing or holds an unknown value.
func FromRequest(r *http.Request) *Context {
	c := newContext(config.AppConfig)
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && valid(cookie.Value) {
		c.name = cookie.Value
	}
	return c
}

func newContext(cfg *config.Config) *Context {
	if cfg == nil {
		return &Context{
			name:           config.DefaultTheme,
			allowSwitching: true,
			syntaxDark:     config.DefaultDarkSyntaxTheme,
			syntaxLight:    config.DefaultLightSyntaxTheme,
		}
	}

	c := &Context{
		name:           cfg.Theme.Default,
		allowSwitching: cfg.Theme.AllowSwitching,
		syntaxDark:     cfg.Theme.SyntaxHighlighting.DefaultDark,
		syntaxLight:    cfg.Theme.SyntaxHighlighting.DefaultLight,
	}
	if !valid(c.name) {
		c.name = config.DefaultTheme
	}
	return c
}

func valid(name string) bool {
	return name == config.LightTheme || name == config.DarkTheme
}

func (c *Context) Name() string {
	return c.name
}

func (c *Context) IsDark() bool {
	return c.name == config.DarkTheme
}

func (c *Context) AllowSwitching() bool {
	return c.allowSwitching
}

// Toggle flips between light and dark and persists the choice. It is a
// no-op when switching is disabled.
func (c *Context) Toggle(w http.ResponseWriter) string {
	if !c.allowSwitching {
		return c.name
	}

	if c.IsDark() {
		c.name = config.LightTheme
	} else {
		c.name = config.DarkTheme
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    c.name,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	return c.name
}

// SyntaxTheme is the chroma style that goes with the page theme.
func (c *Context) SyntaxTheme() string {
	if c.IsDark() {
		return c.syntaxDark
	}
	return c.syntaxLight
}

// Icon is the markup of the button that switches to the other theme.
func (c *Context) Icon() template.HTML {
	return template.HTML(GetThemeIcon(c.name))
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}

func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WrapLongLines(true),
	)
}

// GenerateSyntaxCSS returns the chroma stylesheet of a style, cached per
// style name. Unknown names get chroma's fallback style.
func GenerateSyntaxCSS(theme string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(theme); ok {
		return css
	}

	var buf strings.Builder
	style := styles.Get(theme)

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Pick a readable text color when the style does not set one.
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := GetFormatter().WriteCSS(&buf, style); err != nil {
		return ""
	}
	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(theme, css)
	return css
}
