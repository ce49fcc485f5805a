package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/twomark/panel/handlers"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.LoadEmbedded(); err != nil {
		panic(err)
	}
	m.Run()
}

type fakeResolver map[string]*models.Principal

func (f fakeResolver) PrincipalFromToken(_ context.Context, token string) (*models.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
}

var (
	admin  = &models.Principal{ID: "u-admin", Kind: models.KindUser, Role: models.RoleAdmin}
	editor = &models.Principal{ID: "u-editor", Kind: models.KindUser, Role: models.RoleEditor, Sections: []models.Section{models.SectionMainFeed, models.SectionVisuals}}
	acme   = &models.Principal{ID: "c-acme", Kind: models.KindCompany, Role: models.RoleCompany}
)

// echoPrincipal, context'teki principal'ın id'sini yazar.
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p, _ := handlers.PrincipalFrom(r.Context())
	pkg.JSON(w, http.StatusOK, p.ID)
})

func decode(t *testing.T, rec *httptest.ResponseRecorder) pkg.APIResponse {
	t.Helper()
	var resp pkg.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthRequire(t *testing.T) {
	mw := NewAuthMiddleware(fakeResolver{"good": editor})
	h := mw.Require(echoPrincipal)

	tests := []struct {
		name   string
		header string
		lang   string
		status int
		errMsg string
	}{
		{"missing header", "", "", http.StatusUnauthorized, "authorization header required"},
		{"missing header tr", "", "tr-TR,tr;q=0.9", http.StatusUnauthorized, "Authorization header gerekli"},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>"},
		{"unknown token", "Bearer nope", "", http.StatusUnauthorized, "unauthorized: invalid token"},
		{"valid", "Bearer good", "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.Equal(t, tt.errMsg, resp.Error)
			if tt.status == http.StatusOK {
				assert.Equal(t, editor.ID, resp.Data)
			}
		})
	}
}

func TestAccessMiddleware(t *testing.T) {
	catalog, err := access.DefaultCatalog()
	require.NoError(t, err)
	mw := NewAccessMiddleware(access.NewPolicy(catalog))

	feeds := mw.RequireSection(echoPrincipal, models.SectionMainFeed, models.SectionCompanyFeed)
	visuals := mw.RequireSection(echoPrincipal, models.SectionVisuals)
	adminOnly := mw.RequireRole(echoPrincipal, models.RoleAdmin)

	tests := []struct {
		name    string
		handler http.Handler
		who     *models.Principal
		status  int
	}{
		{"admin holds every section", visuals, admin, http.StatusOK},
		{"editor with one of the sections", feeds, editor, http.StatusOK},
		{"company through company_feed", feeds, acme, http.StatusOK},
		{"admin-only grant on an editor is ignored", visuals, editor, http.StatusForbidden},
		{"company without the section", visuals, acme, http.StatusForbidden},
		{"role check passes", adminOnly, admin, http.StatusOK},
		{"role check fails", adminOnly, editor, http.StatusForbidden},
		{"no principal", visuals, nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.who != nil {
				req = req.WithContext(handlers.WithPrincipal(req.Context(), tt.who))
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(handlers.WithPrincipal(req.Context(), acme))
	rec := httptest.NewRecorder()
	visuals.ServeHTTP(rec, req)
	assert.Equal(t, "you do not have access to the visuals section", decode(t, rec).Error)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		pkg.Error(w, pkg.ErrNotFound)
	})
	h := RequestLogger(zap.New(core))(mux)

	for _, path := range []string{"/ok", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, int64(5), entries[0].ContextMap()["bytes"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}
