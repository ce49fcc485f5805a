package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/ws"
)

func newUsers(e *env) UserService {
	return NewUserService(e.db.Conn, e.users, e.companies, e.policy, e.uploads, e.cache, e.hub)
}

func TestCreateUserNormalizesLegacyLabels(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)

	user, err := svc.Create(ctx, &models.CreateUserRequest{
		FullName:    "Mehmet",
		Username:    "mehmet",
		Password:    testPassword,
		Role:        "Editör",
		Permissions: []string{"Ana Akış", "Firma Ödemeleri", "ana akış", "Uçan Halı"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.Equal(t, []models.Section{models.SectionMainFeed, models.SectionPayments}, user.Permissions)

	created := e.hub.last(t, ws.OpUserCreated)
	assert.True(t, created.to(&models.Principal{Role: models.RoleAdmin}))
	assert.False(t, created.to(&models.Principal{ID: user.ID, Role: models.RoleEditor}))

	admin, err := svc.Create(ctx, &models.CreateUserRequest{
		FullName: "Boss", Username: "boss", Password: testPassword, Role: "Yönetici",
		Permissions: []string{"main_feed"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Empty(t, admin.Permissions)
}

func TestCreateUserRejects(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)
	e.company(t, "acme", "")

	tests := []struct {
		name string
		req  models.CreateUserRequest
		want error
	}{
		{"unknown role", models.CreateUserRequest{FullName: "x", Username: "xavier", Password: testPassword, Role: "wizard"}, pkg.ErrBadRequest},
		{"company role", models.CreateUserRequest{FullName: "x", Username: "xavier", Password: testPassword, Role: "Firma"}, pkg.ErrBadRequest},
		{"short password", models.CreateUserRequest{FullName: "x", Username: "xavier", Password: "123", Role: "editor"}, pkg.ErrBadRequest},
		{"company username", models.CreateUserRequest{FullName: "x", Username: "acme", Password: testPassword, Role: "editor"}, pkg.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateUserRefreshesConnections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	editor := e.user(t, "ayse", models.RoleEditor)

	updated, err := svc.Update(ctx, admin, editor.ID, &models.UpdateUserRequest{
		Permissions: &[]string{"payments"},
		Password:    ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Section{models.SectionPayments}, updated.Permissions)

	assert.Contains(t, e.cache.invalidated, editor.ID)
	require.Len(t, e.hub.updated, 1)
	assert.True(t, e.hub.updated[0].HasSection(models.SectionPayments))

	ev := e.hub.last(t, ws.OpUserUpdated)
	assert.True(t, ev.to(editor), "the user hears about their own change")
}

func TestLastAdminIsProtected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)
	boss := e.user(t, "boss", models.RoleAdmin)
	other := e.user(t, "other", models.RoleAdmin)

	_, err := svc.Update(ctx, boss, boss.ID, &models.UpdateUserRequest{Role: ptr("editor")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	assert.ErrorIs(t, svc.Delete(ctx, boss, boss.ID), pkg.ErrBadRequest)

	require.NoError(t, svc.Delete(ctx, boss, other.ID))
	assert.Equal(t, []string{other.ID}, e.hub.disconnected)
	assert.Equal(t, 1, e.hub.count(ws.OpUserDeleted))

	// boss artık tek admin; başka bir admin onu silemez çünkü yok,
	// editor'e düşürülmesi de engellenir.
	editor := e.user(t, "ayse", models.RoleEditor)
	_, err = svc.Update(ctx, editor, boss.ID, &models.UpdateUserRequest{Role: ptr("editor")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestDeleteUserRemovesSessions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)
	boss := e.user(t, "boss", models.RoleAdmin)
	e.user(t, "ayse", models.RoleEditor)

	tokens, err := newAuth(e).Login(ctx, &models.LoginRequest{Username: "ayse", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, boss, tokens.User.ID))

	_, err = e.sessions.GetByRefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, boss, tokens.User.ID), pkg.ErrNotFound)
}

func TestUpdateAvatarOwnership(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newUsers(e)
	ayse := e.user(t, "ayse", models.RoleEditor)
	mehmet := e.user(t, "mehmet", models.RoleEditor)

	_, err := svc.UpdateAvatar(ctx, mehmet, ayse.ID, pngReader(t, 40, 40), nil)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	user, err := svc.UpdateAvatar(ctx, ayse, ayse.ID, pngReader(t, 40, 40), nil)
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.FileExists(t, localFile(e, *user.AvatarURL))

	first := *user.AvatarURL
	user, err = svc.UpdateAvatar(ctx, ayse, ayse.ID, pngReader(t, 40, 40), nil)
	require.NoError(t, err)
	assert.NoFileExists(t, localFile(e, first), "replaced avatar is removed")
}
