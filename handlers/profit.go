package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// ProfitHandler, admin kazanç tablosu endpoint'leri.
type ProfitHandler struct {
	profitService services.ProfitService
}

// NewProfitHandler, constructor.
func NewProfitHandler(profitService services.ProfitService) *ProfitHandler {
	return &ProfitHandler{profitService: profitService}
}

// List godoc
// GET /api/profits?start=&end=
func (h *ProfitHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	records, err := h.profitService.List(r.Context(), actor, dateRange(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, records)
}

// Summary godoc
// GET /api/profits/summary?start=&end=
func (h *ProfitHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.profitService.Summary(r.Context(), actor, dateRange(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, summary)
}

// Create godoc
// POST /api/profits
func (h *ProfitHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateProfitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.profitService.Create(r.Context(), actor, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, record)
}

// Update godoc
// PATCH, PUT /api/profits/{id}
func (h *ProfitHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.profitService.Update(r.Context(), actor, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, record)
}

// Delete godoc
// DELETE /api/profits/{id}
func (h *ProfitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.profitService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("record deleted"))
}
