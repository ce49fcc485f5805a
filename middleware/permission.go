package middleware

import (
	"net/http"
	"strings"

	"github.com/twomark/panel/handlers"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
)

// AccessMiddleware, principal'ın bölüm ve rol gereksinimlerini kontrol eder.
//
// AuthMiddleware'den SONRA çalışır; context'te doğrulanmış principal vardır.
// Satır bazlı kurallar (firma sadece kendi kayıtlarını görür, silme sadece
// oluşturan veya admin) service katmanındadır.
type AccessMiddleware struct {
	policy *access.Policy
}

// NewAccessMiddleware, constructor.
func NewAccessMiddleware(policy *access.Policy) *AccessMiddleware {
	return &AccessMiddleware{policy: policy}
}

// RequireSection, bölümlerden en az birine erişim gerektiren middleware döner.
//
// Kullanım:
//
//	accessMw.RequireSection(http.HandlerFunc(postHandler.List), models.SectionMainFeed, models.SectionCompanyFeed)
func (m *AccessMiddleware) RequireSection(next http.Handler, sections ...models.Section) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := handlers.PrincipalFrom(r.Context())
		if !ok {
			pkg.ErrorT(w, r, http.StatusUnauthorized, "auth.principalNotFound")
			return
		}

		if !m.policy.CanAny(p, sections...) {
			names := make([]string, len(sections))
			for i, s := range sections {
				names[i] = string(s)
			}
			pkg.ErrorTWithParams(w, r, http.StatusForbidden, "access.sectionDenied",
				map[string]string{"section": strings.Join(names, " / ")})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole, principal'ın rolünün verilenlerden biri olmasını gerektirir.
func (m *AccessMiddleware) RequireRole(next http.Handler, roles ...models.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := handlers.PrincipalFrom(r.Context())
		if !ok {
			pkg.ErrorT(w, r, http.StatusUnauthorized, "auth.principalNotFound")
			return
		}

		for _, role := range roles {
			if p.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}

		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		pkg.ErrorTWithParams(w, r, http.StatusForbidden, "access.roleDenied",
			map[string]string{"role": strings.Join(names, " / ")})
	})
}
