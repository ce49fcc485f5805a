package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
)

// NavigationHandler, istemci menüsünü sunucudaki yetki politikasından üretir.
// Menüde görünen her bölüm, endpoint'lerinde de aynı kuralla açıktır.
type NavigationHandler struct {
	policy *access.Policy
}

// NewNavigationHandler, constructor.
func NewNavigationHandler(policy *access.Policy) *NavigationHandler {
	return &NavigationHandler{policy: policy}
}

type navigationResponse struct {
	Role        models.Role       `json:"role"`
	Permissions []models.Section  `json:"permissions"`
	Items       []access.MenuItem `json:"items"`
}

// Menu godoc
// GET /api/navigation
func (h *NavigationHandler) Menu(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	pkg.JSON(w, http.StatusOK, navigationResponse{
		Role:        p.Role,
		Permissions: h.policy.Sections(p),
		Items:       h.policy.Menu(p),
	})
}

// Permissions godoc
// GET /api/permissions
// Yetkilendirme sayfasındaki atanabilir bölüm listesi.
func (h *NavigationHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.policy.Assignable())
}
