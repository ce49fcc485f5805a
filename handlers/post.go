package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// PostHandler, ana akış ve firma akışı endpoint'leri.
type PostHandler struct {
	postService services.PostService
	maxUpload   int64
}

// NewPostHandler, constructor.
func NewPostHandler(postService services.PostService, maxUpload int64) *PostHandler {
	return &PostHandler{postService: postService, maxUpload: maxUpload}
}

// List godoc
// GET /api/posts?feed_type=ana_akis|firma_akisi
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	feedType := models.FeedType(r.URL.Query().Get("feed_type"))
	posts, err := h.postService.List(r.Context(), actor, feedType)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, posts)
}

// Create godoc
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), actor, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, post)
}

// UploadMedia godoc
// POST /api/posts/{id}/media
func (h *PostHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	file, header, ok := formFile(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer file.Close()

	post, err := h.postService.UpdateMedia(r.Context(), actor, r.PathValue("id"), file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}

// Delete godoc
// DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("post deleted"))
}
