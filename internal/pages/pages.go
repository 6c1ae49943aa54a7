// Package pages serves the HTML pages of the blog client. Every handler talks
// to the backend through a Backend and keeps the login in a
// session.Repository.
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
	"github.com/debemdeboas/blogfront/internal/model"
	"github.com/debemdeboas/blogfront/internal/render"
	"github.com/debemdeboas/blogfront/internal/routes"
	"github.com/debemdeboas/blogfront/internal/session"
	"github.com/debemdeboas/blogfront/internal/theme"
	"github.com/debemdeboas/blogfront/internal/util"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var Templates embed.FS

// Backend is the subset of the backend client used by the pages.
type Backend interface {
	SignUp(ctx context.Context, req api.SignUpRequest) (api.Message, error)
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
	Protected(ctx context.Context, token string) (api.Message, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id model.PostID) (model.Post, error)
	ListOwnPosts(ctx context.Context, token string) ([]model.Post, error)
	CreatePost(ctx context.Context, token string, req draft.CreatePostRequest) (api.CreatePostResponse, error)
	DeletePost(ctx context.Context, token string, id model.PostID) (api.Message, error)
	RestorePost(ctx context.Context, token string, id model.PostID) (api.Message, error)
	ImageURL(path string) string
}

type Handler struct {
	backend  Backend
	sessions session.Repository
	content  config.ContentConfig
	pages    map[string]*template.Template
}

var pageTemplates = []string{
	config.TemplateHome,
	config.TemplateFeed,
	config.TemplatePost,
	config.TemplateOwn,
	config.TemplateCreate,
	config.TemplateError,
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// New parses every page template from templates, which must hold a
// templates directory laid out like Templates.
func New(backend Backend, sessions session.Repository, content config.ContentConfig, templates fs.FS) (*Handler, error) {
	h := &Handler{
		backend:  backend,
		sessions: sessions,
		content:  content,
		pages:    make(map[string]*template.Template, len(pageTemplates)),
	}

	for _, page := range pageTemplates {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templates,
			config.TemplatesLocalDir+"/"+config.TemplateLayout,
			config.TemplatesLocalDir+"/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		h.pages[page] = tmpl
	}
	return h, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+routes.RootPath+"{$}", h.serveHome)
	mux.HandleFunc("POST "+routes.Login, h.serveLogin)
	mux.HandleFunc("POST "+routes.SignUp, h.serveSignUp)
	mux.HandleFunc("POST "+routes.Logout, h.serveLogout)
	mux.HandleFunc("POST "+routes.Protected, h.serveProtected)

	mux.HandleFunc("GET "+routes.BlogFeed, h.serveFeed)
	mux.HandleFunc("GET "+routes.BlogDetail, h.servePost)
	mux.HandleFunc("GET "+routes.OwnBlogs, h.serveOwnBlogs)
	mux.HandleFunc("POST "+routes.OwnBlogDelete, h.serveDelete)
	mux.HandleFunc("POST "+routes.OwnBlogRestore, h.serveRestore)
	mux.HandleFunc("GET "+routes.CreateBlog, h.serveCreateForm)
	mux.HandleFunc("POST "+routes.CreateBlog, h.serveCreate)

	mux.HandleFunc("POST "+routes.ThemeToggle, serveThemeToggle)
	mux.HandleFunc("GET "+routes.SyntaxCSS, serveSyntaxCSS)

	mux.HandleFunc(routes.RootPath, h.serveNotFound)
}

// render executes a page into a buffer first so a template failure never
// leaves a half written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	l := zerolog.Ctx(r.Context())

	tmpl, ok := h.pages[page]
	if !ok {
		l.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, config.TemplateNameLayout, data); err != nil {
		l.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type errorPage struct {
	*model.PageData
	Title   string
	Message string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, r, status, config.TemplateError, errorPage{
		PageData: model.NewPageData(r),
		Title:    title,
		Message:  message,
	})
}

func (h *Handler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found", "There is nothing here.")
}

// redirect sends the browser to path with an optional flash message.
func redirect(w http.ResponseWriter, r *http.Request, path, msg string, extra url.Values) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	if msg != "" {
		q.Set(config.QueryMessage, msg)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func currentSession(r *http.Request) (session.Session, bool) {
	return session.FromContext(r.Context())
}

// decorate fills in the fields the templates need that the backend does not
// send.
func (h *Handler) decorate(posts []model.Post) {
	for i := range posts {
		posts[i].ImageURL = h.backend.ImageURL(posts[i].Image)
		posts[i].Excerpt = render.Excerpt(posts[i].Contents, h.content.ExcerptLength)
	}
}

// backTo is the page the browser came from, if it is on this site.
func backTo(r *http.Request) string {
	return util.LocalPath(r.Referer(), r.Host, routes.RootPath)
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme.FromRequest(r).Toggle(w)
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func serveSyntaxCSS(w http.ResponseWriter, r *http.Request) {
	css := theme.GenerateSyntaxCSS(theme.FromRequest(r).SyntaxTheme())

	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HVary, "Cookie")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(css))
}
