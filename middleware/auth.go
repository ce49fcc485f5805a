// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware'lar zincir şeklinde çalışır: RequestLogger → Auth → Access → Handler
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Hata varsa next çağrılmaz, request burada durur.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/twomark/panel/handlers"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

// PrincipalResolver, access token'dan güncel principal'ı çözer.
// services.PrincipalService bu interface'i karşılar.
type PrincipalResolver interface {
	PrincipalFromToken(ctx context.Context, token string) (*models.Principal, error)
}

// AuthMiddleware, JWT token doğrulama middleware'ı.
type AuthMiddleware struct {
	principals PrincipalResolver
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(principals PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{principals: principals}
}

// Require, geçerli bir access token zorunlu kılar.
//
// HTTP header formatı: Authorization: Bearer <token>
//
// Token'daki rol değil, DB'deki güncel rol ve izinler context'e konur;
// yetkisi alınan kullanıcı token süresi dolmadan da erişimini kaybeder.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorT(w, r, http.StatusUnauthorized, "auth.headerRequired")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			pkg.ErrorT(w, r, http.StatusUnauthorized, "auth.invalidFormat")
			return
		}

		p, err := m.principals.PrincipalFromToken(r.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			pkg.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithPrincipal(r.Context(), p)))
	})
}
