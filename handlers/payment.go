package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// PaymentHandler, firma ödemeleri endpoint'leri.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler, constructor.
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// paymentFilter, ?company_id=&start=&end= parametrelerini okur.
// Firma hesabı için company_id service'te kendi id'siyle değiştirilir.
func paymentFilter(r *http.Request) models.PaymentFilter {
	return models.PaymentFilter{
		CompanyID: r.URL.Query().Get("company_id"),
		Range:     dateRange(r),
	}
}

// List godoc
// GET /api/payments?company_id=&start=&end=
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	payments, err := h.paymentService.List(r.Context(), actor, paymentFilter(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, payments)
}

// Summary godoc
// GET /api/payments/summary
func (h *PaymentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.paymentService.Summary(r.Context(), actor, paymentFilter(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, summary)
}

// Create godoc
// POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.paymentService.Create(r.Context(), actor, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, payment)
}

// Update godoc
// PATCH, PUT /api/payments/{id}
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.paymentService.Update(r.Context(), actor, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, payment)
}

// Delete godoc
// DELETE /api/payments/{id}
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("payment deleted"))
}
