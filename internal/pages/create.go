package pages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
	"github.com/debemdeboas/blogfront/internal/model"
	"github.com/debemdeboas/blogfront/internal/routes"
	"github.com/rs/zerolog"
)

const fieldImage = "image"

type createPage struct {
	*model.PageData
	Form   draft.Draft
	Errors draft.Result
}

func (h *Handler) serveCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, config.TemplateCreate, createPage{
		PageData: model.NewPageData(r),
		Errors:   draft.Result{},
	})
}

// normalizeNewlines turns the CRLF line breaks browsers submit for textareas
// into LF, so a line break counts as one character.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// readDraft builds the draft from the submitted form. An uploaded file wins
// over a previously encoded image carried in image_data.
func (h *Handler) readDraft(r *http.Request) (draft.Draft, string, error) {
	if err := r.ParseMultipartForm(config.MultipartMaxMem); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return draft.Draft{}, "", err
	}

	d := draft.Draft{
		Title:       r.FormValue("title"),
		Description: normalizeNewlines(r.FormValue("description")),
		Contents:    normalizeNewlines(r.FormValue("contents")),
		Tags:        r.FormValue("tags"),
		Image:       r.FormValue("image_data"),
	}

	file, _, err := r.FormFile(fieldImage)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return d, "", nil
	}
	if err != nil {
		return d, config.ErrImageInvalid, nil
	}
	defer file.Close()

	encoded, err := draft.EncodeImage(file, int64(h.content.MaxUploadBytes))
	switch {
	case errors.Is(err, draft.ErrImageTooLarge):
		return d, config.ErrImageTooLarge, nil
	case err != nil:
		return d, config.ErrImageInvalid, nil
	}
	d.Image = encoded
	return d, "", nil
}

func (h *Handler) serveCreate(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	d, imageErr, err := h.readDraft(r)
	if err != nil {
		l.Warn().Err(err).Msg("Failed to parse create form")
		h.renderError(w, r, http.StatusBadRequest, "Create Blog", config.ErrBadForm)
		return
	}

	page := createPage{
		PageData: model.NewPageData(r),
		Form:     d,
		Errors:   draft.Validate(d),
	}
	if imageErr != "" {
		page.Errors[fieldImage] = imageErr
	}
	if !page.Errors.OK() {
		h.render(w, r, http.StatusUnprocessableEntity, config.TemplateCreate, page)
		return
	}

	sess, ok := currentSession(r)
	if !ok {
		page.Alert = config.ErrNoToken
		h.render(w, r, http.StatusOK, config.TemplateCreate, page)
		return
	}

	resp, err := h.backend.CreatePost(r.Context(), sess.Token, d.Payload())
	if err != nil {
		l.Warn().Err(err).Msg("Failed to create post")
		page.Alert = api.UserMessage(err, config.ErrCreateBlog)
		h.render(w, r, http.StatusOK, config.TemplateCreate, page)
		return
	}

	l.Info().Str("id", resp.BlogID.String()).Msg("Post created")
	redirect(w, r, routes.BlogFeed, config.MsgBlogCreated, nil)
}
