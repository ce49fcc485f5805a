package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

const testPassword = "secret123"

type published struct {
	to    ws.Audience
	event ws.Event
}

// fakeHub, yayınları kaydeder; audience'ların kime ulaştığı testte sorgulanır.
type fakeHub struct {
	mu           sync.Mutex
	events       []published
	updated      []*models.Principal
	disconnected []string
}

func (h *fakeHub) Publish(to ws.Audience, event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, published{to: to, event: event})
}

func (h *fakeHub) BroadcastToPrincipal(principalID string, event ws.Event) {
	h.Publish(ws.Principals(principalID), event)
}

func (h *fakeHub) GetOnlineUserIDs() []string { return nil }

func (h *fakeHub) UpdatePrincipal(p *models.Principal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, p)
}

func (h *fakeHub) DisconnectPrincipal(principalID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected = append(h.disconnected, principalID)
}

// last, op için yayınlanan son event'i döner.
func (h *fakeHub) last(t *testing.T, op string) published {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].event.Op == op {
			return h.events[i]
		}
	}
	t.Fatalf("no %s event published", op)
	return published{}
}

func (h *fakeHub) count(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.event.Op == op {
			n++
		}
	}
	return n
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
}

type env struct {
	db        *database.DB
	policy    *access.Policy
	users     repository.UserRepository
	companies repository.CompanyRepository
	sessions  repository.SessionRepository
	posts     repository.PostRepository
	events    repository.EventRepository
	payments  repository.PaymentRepository
	profits   repository.ProfitRepository
	visuals   repository.VisualsRepository
	uploads   UploadService
	uploadDir string
	hub       *fakeHub
	cache     *fakeCache
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "panel.db"), database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog, err := access.DefaultCatalog()
	require.NoError(t, err)

	uploadDir := filepath.Join(dir, "uploads")
	return &env{
		db:        db,
		policy:    access.NewPolicy(catalog),
		users:     repository.NewSQLiteUserRepo(db.Conn),
		companies: repository.NewSQLiteCompanyRepo(db.Conn),
		sessions:  repository.NewSQLiteSessionRepo(db.Conn),
		posts:     repository.NewSQLitePostRepo(db.Conn),
		events:    repository.NewSQLiteEventRepo(db.Conn),
		payments:  repository.NewSQLitePaymentRepo(db.Conn),
		profits:   repository.NewSQLiteProfitRepo(db.Conn),
		visuals:   repository.NewSQLiteVisualsRepo(db.Conn),
		uploads:   NewUploadService(uploadDir, 1<<20),
		uploadDir: uploadDir,
		hub:       &fakeHub{},
		cache:     &fakeCache{},
	}
}

func (e *env) hash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// user, doğrudan repository ile kullanıcı oluşturur ve principal'ını döner.
func (e *env) user(t *testing.T, username string, role models.Role, sections ...models.Section) *models.Principal {
	t.Helper()
	if sections == nil {
		sections = []models.Section{}
	}
	u := &models.User{FullName: username, Username: username, PasswordHash: e.hash(t), Role: role, Permissions: sections}
	require.NoError(t, e.users.Create(context.Background(), u))
	return userPrincipal(e.policy, u)
}

func (e *env) company(t *testing.T, username, contact string) *models.Principal {
	t.Helper()
	c := &models.Company{
		Name: username + " Ltd", Username: username, PasswordHash: e.hash(t),
		BrandColorHex: "#123456", ContactInfo: contact,
	}
	require.NoError(t, e.companies.Create(context.Background(), c))
	return companyPrincipal(e.policy, c)
}

func ptr[T any](v T) *T { return &v }
