// Package main, HTTP route kayıtları.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: JWT token doğrulaması
//   - authSection: auth + bölümlerden en az birine erişim
//   - authAdminSection: auth + admin rolü + bölüm erişimi
package main

import (
	"net/http"

	"github.com/twomark/panel/middleware"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/static"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama: Go 1.22 mux en spesifik pattern'i seçer;
// "/api/payments/summary" → "/api/payments/{id}"den önce eşleşir.
func initRoutes(mux *http.ServeMux, h *Handlers, resolver middleware.PrincipalResolver, policy *access.Policy) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(resolver)
	accessMw := middleware.NewAccessMiddleware(policy)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	authSection := func(handler http.HandlerFunc, sections ...models.Section) http.Handler {
		return authMw.Require(accessMw.RequireSection(handler, sections...))
	}
	authAdminSection := func(handler http.HandlerFunc, sections ...models.Section) http.Handler {
		return authMw.Require(accessMw.RequireRole(accessMw.RequireSection(handler, sections...), models.RoleAdmin))
	}

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "panel"})
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("GET /api/auth/me", auth(h.Auth.Me))
	mux.Handle("POST /api/auth/password", auth(h.Auth.ChangePassword))

	// Navigation
	mux.Handle("GET /api/navigation", auth(h.Navigation.Menu))
	mux.Handle("GET /api/permissions", authAdminSection(h.Navigation.Permissions, models.SectionAuthorization))

	// {id} güncellemeleri kısmidir; PUT, PATCH ile aynı handler'a gider.

	// Users. Avatar: kendi avatarı veya admin, service'te kontrol edilir.
	mux.Handle("GET /api/users", authAdminSection(h.User.List, models.SectionAuthorization))
	mux.Handle("POST /api/users", authAdminSection(h.User.Create, models.SectionAuthorization))
	mux.Handle("PATCH /api/users/{id}", authAdminSection(h.User.Update, models.SectionAuthorization))
	mux.Handle("PUT /api/users/{id}", authAdminSection(h.User.Update, models.SectionAuthorization))
	mux.Handle("DELETE /api/users/{id}", authAdminSection(h.User.Delete, models.SectionAuthorization))
	mux.Handle("POST /api/users/{id}/avatar", auth(h.User.UploadAvatar))

	// Companies. Listeyi firma da görür (sadece kendini).
	mux.Handle("GET /api/companies", auth(h.Company.List))
	mux.Handle("GET /api/companies/{id}", auth(h.Company.Get))
	mux.Handle("POST /api/companies", authAdminSection(h.Company.Create, models.SectionCompanyCreate))
	mux.Handle("PATCH /api/companies/{id}", authAdminSection(h.Company.Update, models.SectionCompanyCreate))
	mux.Handle("PUT /api/companies/{id}", authAdminSection(h.Company.Update, models.SectionCompanyCreate))
	mux.Handle("POST /api/companies/{id}/logo", authAdminSection(h.Company.UploadLogo, models.SectionCompanyCreate))
	mux.Handle("DELETE /api/companies/{id}", authAdminSection(h.Company.Delete, models.SectionCompanyCreate))

	// Posts
	feeds := []models.Section{models.SectionMainFeed, models.SectionCompanyFeed}
	mux.Handle("GET /api/posts", authSection(h.Post.List, feeds...))
	mux.Handle("POST /api/posts", authSection(h.Post.Create, feeds...))
	mux.Handle("POST /api/posts/{id}/media", authSection(h.Post.UploadMedia, feeds...))
	mux.Handle("DELETE /api/posts/{id}", authSection(h.Post.Delete, feeds...))

	// Events
	calendars := []models.Section{models.SectionCompanyCalendar, models.SectionSharedCalendar}
	mux.Handle("GET /api/events", authSection(h.Event.List, calendars...))
	mux.Handle("POST /api/events", authSection(h.Event.Create, calendars...))
	mux.Handle("PATCH /api/events/{id}", authSection(h.Event.Update, calendars...))
	mux.Handle("PUT /api/events/{id}", authSection(h.Event.Update, calendars...))
	mux.Handle("DELETE /api/events/{id}", authSection(h.Event.Delete, calendars...))

	// Profits
	mux.Handle("GET /api/profits", authAdminSection(h.Profit.List, models.SectionProfitTable))
	mux.Handle("GET /api/profits/summary", authAdminSection(h.Profit.Summary, models.SectionProfitTable))
	mux.Handle("POST /api/profits", authAdminSection(h.Profit.Create, models.SectionProfitTable))
	mux.Handle("PATCH /api/profits/{id}", authAdminSection(h.Profit.Update, models.SectionProfitTable))
	mux.Handle("PUT /api/profits/{id}", authAdminSection(h.Profit.Update, models.SectionProfitTable))
	mux.Handle("DELETE /api/profits/{id}", authAdminSection(h.Profit.Delete, models.SectionProfitTable))

	// Payments. Yazma işlemlerinde admin kontrolü service'tedir.
	mux.Handle("GET /api/payments", authSection(h.Payment.List, models.SectionPayments))
	mux.Handle("GET /api/payments/summary", authSection(h.Payment.Summary, models.SectionPayments))
	mux.Handle("POST /api/payments", authSection(h.Payment.Create, models.SectionPayments))
	mux.Handle("PATCH /api/payments/{id}", authSection(h.Payment.Update, models.SectionPayments))
	mux.Handle("PUT /api/payments/{id}", authSection(h.Payment.Update, models.SectionPayments))
	mux.Handle("DELETE /api/payments/{id}", authSection(h.Payment.Delete, models.SectionPayments))

	// Visuals. GET public: login sayfası logoyu buradan alır.
	mux.HandleFunc("GET /api/visuals", h.Visuals.Get)
	mux.Handle("PUT /api/visuals", authAdminSection(h.Visuals.Update, models.SectionVisuals))
	mux.Handle("POST /api/visuals/logo", authAdminSection(h.Visuals.UploadLogo, models.SectionVisuals))

	// Yüklenen görseller
	mux.HandleFunc("GET /uploads/{dir}/{file}", h.Uploads.Serve)

	// WebSocket: tarayıcılar upgrade isteğinde header gönderemez,
	// token ?token= ile gelir ve handler içinde doğrulanır.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// Frontend (SPA fallback)
	mux.Handle("GET /", static.Handler())
}
