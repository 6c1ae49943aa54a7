package pages

import (
	"net/http"
	"net/url"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/model"
	"github.com/debemdeboas/blogfront/internal/render"
	"github.com/debemdeboas/blogfront/internal/routes"
	"github.com/rs/zerolog"
)

type feedPage struct {
	*model.PageData
	Posts []model.Post
}

func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.backend.ListPosts(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch posts")
		h.renderError(w, r, http.StatusBadGateway, "Blog Feed", config.ErrFetchBlogs)
		return
	}
	h.decorate(posts)

	h.render(w, r, http.StatusOK, config.TemplateFeed, feedPage{
		PageData: model.NewPageData(r),
		Posts:    posts,
	})
}

type postPage struct {
	*model.PageData
	Post model.Post
}

func (h *Handler) servePost(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePostID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Blog not found", "Blog not found.")
		return
	}

	post, err := h.backend.GetPost(r.Context(), id)
	if api.IsNotFound(err) {
		h.renderError(w, r, http.StatusNotFound, "Blog not found", "Blog not found.")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("id", id.String()).Msg("Failed to fetch post")
		h.renderError(w, r, http.StatusBadGateway, "Blog", config.ErrFetchBlog)
		return
	}

	pd := model.NewPageData(r)
	post.ImageURL = h.backend.ImageURL(post.Image)
	post.Rendered = render.RenderContents(post.Contents, pd.Theme.SyntaxTheme())

	h.render(w, r, http.StatusOK, config.TemplatePost, postPage{
		PageData: pd,
		Post:     post,
	})
}

type ownPage struct {
	*model.PageData
	Posts []model.Post
	// UndoID is the post just deleted, offered for restore.
	UndoID string
}

func (h *Handler) serveOwnBlogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(r)
	if !ok {
		redirect(w, r, routes.RootPath, config.ErrNoToken, nil)
		return
	}

	posts, err := h.backend.ListOwnPosts(r.Context(), sess.Token)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch own posts")
		h.renderError(w, r, http.StatusBadGateway, "My Blogs", config.ErrFetchOwnBlogs)
		return
	}
	h.decorate(posts)

	page := ownPage{
		PageData: model.NewPageData(r),
		Posts:    posts,
	}
	if undo := r.URL.Query().Get(config.QueryUndo); undo != "" {
		if id, err := model.ParsePostID(undo); err == nil {
			page.UndoID = id.String()
		}
	}
	h.render(w, r, http.StatusOK, config.TemplateOwn, page)
}

func (h *Handler) serveDelete(w http.ResponseWriter, r *http.Request) {
	h.changeDeleted(w, r, true)
}

func (h *Handler) serveRestore(w http.ResponseWriter, r *http.Request) {
	h.changeDeleted(w, r, false)
}

func (h *Handler) changeDeleted(w http.ResponseWriter, r *http.Request, deleting bool) {
	sess, ok := currentSession(r)
	if !ok {
		redirect(w, r, routes.RootPath, config.ErrNoToken, nil)
		return
	}

	id, err := model.ParsePostID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "Blog not found", "Blog not found.")
		return
	}

	l := zerolog.Ctx(r.Context()).With().Str("id", id.String()).Bool("delete", deleting).Logger()

	if deleting {
		_, err = h.backend.DeletePost(r.Context(), sess.Token, id)
	} else {
		_, err = h.backend.RestorePost(r.Context(), sess.Token, id)
	}

	if err != nil {
		l.Warn().Err(err).Msg("Failed to change post")
		fallback := config.ErrRestoreBlog
		if deleting {
			fallback = config.ErrDeleteBlog
		}
		redirect(w, r, routes.OwnBlogs, api.UserMessage(err, fallback), nil)
		return
	}

	l.Info().Msg("Post changed")
	if deleting {
		redirect(w, r, routes.OwnBlogs, config.MsgBlogDeleted, url.Values{config.QueryUndo: {id.String()}})
		return
	}
	redirect(w, r, routes.OwnBlogs, config.MsgBlogRestored, nil)
}
