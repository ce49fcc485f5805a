package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// CompanyHandler, müşteri firma endpoint'leri.
type CompanyHandler struct {
	companyService services.CompanyService
	maxUpload      int64
}

// NewCompanyHandler, constructor.
func NewCompanyHandler(companyService services.CompanyService, maxUpload int64) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, maxUpload: maxUpload}
}

// List godoc
// GET /api/companies
// Firma hesabı sadece kendisini görür.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	companies, err := h.companyService.List(r.Context(), actor)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, companies)
}

// Get godoc
// GET /api/companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	company, err := h.companyService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, company)
}

// Create godoc
// POST /api/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.companyService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, company)
}

// Update godoc
// PATCH, PUT /api/companies/{id}
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.companyService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, company)
}

// UploadLogo godoc
// POST /api/companies/{id}/logo
func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r, h.maxUpload)
	if !ok {
		return
	}
	defer file.Close()

	company, err := h.companyService.UpdateLogo(r.Context(), r.PathValue("id"), file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, company)
}

// Delete godoc
// DELETE /api/companies/{id}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.companyService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("company deleted"))
}
