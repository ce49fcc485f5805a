package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomark/panel/config"
	"github.com/twomark/panel/database"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/i18n"
	"github.com/twomark/panel/ws"
)

func TestMain(m *testing.M) {
	if err := i18n.LoadEmbedded(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	handler http.Handler
	cfg     *config.Config
}

// newTestServer, gerçek SQLite ve servislerle tam route ağacını kurar.
// Hub çalıştırılmaz; yayınlar bağlı client olmadığı için düşer.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		Server:   config.ServerConfig{CORSOrigins: []string{"*"}},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "panel.db")},
		JWT:      config.JWTConfig{Secret: "routes-test-secret", AccessTokenExpiry: 60, RefreshTokenExpiry: 7},
		Upload:   config.UploadConfig{Dir: filepath.Join(dir, "uploads"), MaxSize: 1 << 20},
	}

	db, err := database.New(cfg.Database.Path, database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog, err := access.DefaultCatalog()
	require.NoError(t, err)
	policy := access.NewPolicy(catalog)

	hub := ws.NewHub()
	svcs, limiters := initServices(db.Conn, initRepositories(db.Conn), policy, hub, cfg)
	t.Cleanup(limiters.Close)
	t.Cleanup(svcs.Principal.Close)

	mux := http.NewServeMux()
	initRoutes(mux, initHandlers(svcs, limiters, policy, hub, cfg), svcs.Principal, policy)

	return &testServer{handler: mux, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

type tokenData struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (s *testServer) login(t *testing.T, username, password string) tokenData {
	t.Helper()
	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": username, "password": password},
		"X-Forwarded-For", "10.0.0."+username)
	require.Equal(t, http.StatusOK, rec.Code, resp.Error)

	var tokens tokenData
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	return tokens
}

func (s *testServer) bootstrap(t *testing.T) string {
	t.Helper()
	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"full_name": "Owner", "username": "owner", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)

	var tokens tokenData
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	return tokens.AccessToken
}

func TestRegisterAndMe(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	admin := s.bootstrap(t)

	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"full_name": "Late", "username": "late", "password": "secret123",
	}, "Accept-Language", "en")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "registration is closed, ask an administrator for an account", resp.Error)

	rec, resp = s.do(t, http.MethodGet, "/api/auth/me", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"role":"admin"`)

	rec, _ = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouteGuards(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrap(t)

	rec, resp := s.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"full_name": "Ayşe", "username": "ayse", "password": "secret123",
		"role": "editor", "permissions": []string{"main_feed"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)

	rec, resp = s.do(t, http.MethodPost, "/api/companies", admin, map[string]string{
		"name": "Acme", "username": "acme", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)

	editor := s.login(t, "ayse", "secret123").AccessToken
	company := s.login(t, "acme", "secret123").AccessToken

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"admin lists users", http.MethodGet, "/api/users", admin, http.StatusOK},
		{"admin reads profits", http.MethodGet, "/api/profits/summary", admin, http.StatusOK},
		{"admin reads permissions", http.MethodGet, "/api/permissions", admin, http.StatusOK},
		{"editor reads feed", http.MethodGet, "/api/posts", editor, http.StatusOK},
		{"editor without payments", http.MethodGet, "/api/payments", editor, http.StatusForbidden},
		{"editor cannot list users", http.MethodGet, "/api/users", editor, http.StatusForbidden},
		{"editor cannot read profits", http.MethodGet, "/api/profits", editor, http.StatusForbidden},
		{"editor cannot theme", http.MethodPut, "/api/visuals", editor, http.StatusForbidden},
		{"company reads payments", http.MethodGet, "/api/payments/summary", company, http.StatusOK},
		{"company reads calendar", http.MethodGet, "/api/events", company, http.StatusOK},
		{"company sees itself", http.MethodGet, "/api/companies", company, http.StatusOK},
		{"company cannot create companies", http.MethodPost, "/api/companies", company, http.StatusForbidden},
		{"company cannot list users", http.MethodGet, "/api/users", company, http.StatusForbidden},
		{"visuals are public", http.MethodGet, "/api/visuals", "", http.StatusOK},
		{"navigation needs auth", http.MethodGet, "/api/navigation", "", http.StatusUnauthorized},
		{"unknown api path", http.MethodGet, "/api/nope", admin, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, rec.Code, resp.Error)
		})
	}
}

func TestUpdateAcceptsPutAndPatch(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrap(t)

	rec, resp := s.do(t, http.MethodPost, "/api/companies", admin, map[string]string{
		"name": "Acme", "username": "acme", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	company := s.login(t, "acme", "secret123").AccessToken
	path := "/api/companies/" + created.ID

	rec, resp = s.do(t, http.MethodPut, path, admin, map[string]string{"brand_color_hex": "#ABCDEF"})
	require.Equal(t, http.StatusOK, rec.Code, resp.Error)
	assert.Contains(t, string(resp.Data), `"name":"Acme"`, "PUT leaves omitted fields alone")

	rec, resp = s.do(t, http.MethodPatch, path, admin, map[string]string{"name": "Acme Studio"})
	require.Equal(t, http.StatusOK, rec.Code, resp.Error)
	assert.Contains(t, string(resp.Data), `"name":"Acme Studio"`)

	rec, _ = s.do(t, http.MethodPut, path, company, map[string]string{"name": "Mine"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/payments/missing", company, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNavigationFollowsSections(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap(t)
	admin := s.login(t, "owner", "secret123").AccessToken

	rec, resp := s.do(t, http.MethodPost, "/api/companies", admin, map[string]string{
		"name": "Acme", "username": "acme", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, resp.Error)
	company := s.login(t, "acme", "secret123").AccessToken

	rec, resp = s.do(t, http.MethodGet, "/api/navigation", company, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var nav struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &nav))
	assert.Equal(t, "company", nav.Role)
	assert.ElementsMatch(t, []string{"company_feed", "company_calendar", "payments"}, nav.Permissions)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap(t)

	bad := map[string]string{"username": "owner", "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		rec, _ := s.do(t, http.MethodPost, "/api/auth/login", "", bad, "X-Forwarded-For", "203.0.113.7")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "", bad, "X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, resp.Error, "too many login attempts")

	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "owner", "password": "secret123"}, "X-Forwarded-For", "203.0.113.8")
	assert.Equal(t, http.StatusOK, rec.Code, "other addresses are unaffected")
}

func TestUploadsServing(t *testing.T) {
	s := newTestServer(t)

	avatars := filepath.Join(s.cfg.Upload.Dir, "avatars")
	require.NoError(t, os.MkdirAll(avatars, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(avatars, "a.png"), []byte("png-bytes"), 0644))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"stored file", "/uploads/avatars/a.png", http.StatusOK},
		{"missing file", "/uploads/avatars/b.png", http.StatusNotFound},
		{"unknown directory", "/uploads/secrets/a.png", http.StatusNotFound},
		{"backslash traversal", "/uploads/avatars/..%5cpanel.db", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "png-bytes", rec.Body.String())
			}
		})
	}
}
