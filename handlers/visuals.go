package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// VisualsHandler, panel teması endpoint'leri.
type VisualsHandler struct {
	visualsService services.VisualsService
	maxUpload      int64
}

// NewVisualsHandler, constructor.
func NewVisualsHandler(visualsService services.VisualsService, maxUpload int64) *VisualsHandler {
	return &VisualsHandler{visualsService: visualsService, maxUpload: maxUpload}
}

// Get godoc
// GET /api/visuals
// Auth gerektirmez; login sayfası logoyu ve renkleri buradan alır.
func (h *VisualsHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.visualsService.Get(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, v)
}

// Update godoc
// PUT /api/visuals
func (h *VisualsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateVisualsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.visualsService.Update(r.Context(), actor, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, v)
}

// UploadLogo godoc
// POST /api/visuals/logo
func (h *VisualsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	file, header, ok := formFile(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer file.Close()

	v, err := h.visualsService.UpdateLogo(r.Context(), actor, file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, v)
}
