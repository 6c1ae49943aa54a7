package pages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/model"
	"github.com/debemdeboas/blogfront/internal/routes"
	"github.com/debemdeboas/blogfront/internal/session"
	"github.com/rs/zerolog"
)

// authForm is what the login and signup form keeps between posts. The
// password is never echoed back.
type authForm struct {
	Username string
	Email    string
}

type homePage struct {
	*model.PageData
	Posts   []model.Post
	IsLogin bool
	Form    authForm
	Errors  map[string]string
	// Probe is the answer of the protected route check.
	Probe string
}

func (h *Handler) newHomePage(r *http.Request) *homePage {
	return &homePage{
		PageData: model.NewPageData(r),
		IsLogin:  r.URL.Query().Get(config.QueryMode) != config.ModeSignup,
		Errors:   map[string]string{},
	}
}

// renderHome loads the post preview and renders the home page. A failed
// fetch shows no posts.
func (h *Handler) renderHome(w http.ResponseWriter, r *http.Request, status int, page *homePage) {
	posts, err := h.backend.ListPosts(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Failed to fetch posts for home page")
		posts = nil
	}
	if n := h.content.HomePosts; n > 0 && len(posts) > n {
		posts = posts[:n]
	}
	h.decorate(posts)
	page.Posts = posts

	h.render(w, r, status, config.TemplateHome, page)
}

func (h *Handler) serveHome(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, h.newHomePage(r))
}

// authFailed shows a local validation failure inline, or the backend's
// message as the page alert.
func (h *Handler) authFailed(w http.ResponseWriter, r *http.Request, page *homePage, err error) {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		page.Errors = ve.Fields
		h.renderHome(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	zerolog.Ctx(r.Context()).Info().Err(err).Msg("Authentication failed")
	page.Alert = api.UserMessage(err, config.ErrGeneric)
	h.renderHome(w, r, http.StatusOK, page)
}

func (h *Handler) serveLogin(w http.ResponseWriter, r *http.Request) {
	page := h.newHomePage(r)
	page.IsLogin = true
	page.Form = authForm{Email: strings.TrimSpace(r.PostFormValue("email"))}

	resp, err := h.backend.Login(r.Context(), api.LoginRequest{
		Email:    page.Form.Email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.authFailed(w, r, page, err)
		return
	}

	sess := session.Session{Token: resp.AccessToken, Username: resp.User.Username}
	if err := h.sessions.Set(w, r, sess); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to store session")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("username", sess.Username).Msg("User logged in")
	http.Redirect(w, r, routes.BlogFeed, http.StatusSeeOther)
}

func (h *Handler) serveSignUp(w http.ResponseWriter, r *http.Request) {
	page := h.newHomePage(r)
	page.IsLogin = false
	page.Form = authForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}

	msg, err := h.backend.SignUp(r.Context(), api.SignUpRequest{
		Username: page.Form.Username,
		Email:    page.Form.Email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.authFailed(w, r, page, err)
		return
	}

	// Signing up does not log in; switch to the login form.
	page.IsLogin = true
	page.Form = authForm{}
	page.Alert = msg.Message
	if page.Alert == "" {
		page.Alert = config.MsgAccountCreated
	}
	h.renderHome(w, r, http.StatusOK, page)
}

func (h *Handler) serveLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to clear session")
	}
	http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
}

func (h *Handler) serveProtected(w http.ResponseWriter, r *http.Request) {
	page := h.newHomePage(r)

	sess, ok := currentSession(r)
	if !ok {
		page.Alert = config.ErrNoToken
		h.renderHome(w, r, http.StatusOK, page)
		return
	}

	msg, err := h.backend.Protected(r.Context(), sess.Token)
	if err != nil {
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("Protected probe failed")
		page.Alert = config.ErrProtectedProbe
	} else {
		page.Probe = msg.Message
	}
	h.renderHome(w, r, http.StatusOK, page)
}
