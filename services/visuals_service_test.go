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

func TestVisualsDefaultsAndUpdates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewVisualsService(e.visuals, e.uploads, e.hub)
	admin := e.user(t, "boss", models.RoleAdmin)
	designer := e.user(t, "ayse", models.RoleEditor, models.SectionVisuals)
	acme := e.company(t, "acme", "")

	v, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultVisuals().LogoURL, v.LogoURL)
	assert.Equal(t, 150, v.LogoWidth)
	assert.Nil(t, v.UpdatedBy)

	_, err = svc.Update(ctx, designer, &models.UpdateVisualsRequest{AccentColor: ptr("#FF00AA")})
	assert.ErrorIs(t, err, pkg.ErrForbidden, "visuals are admin only")

	_, err = svc.Update(ctx, admin, &models.UpdateVisualsRequest{LogoWidth: ptr(5)})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	v, err = svc.Update(ctx, admin, &models.UpdateVisualsRequest{AccentColor: ptr("#FF00AA")})
	require.NoError(t, err)
	assert.Equal(t, "#FF00AA", v.AccentColor)
	require.NotNil(t, v.UpdatedBy)
	assert.Equal(t, admin.ID, *v.UpdatedBy)

	ev := e.hub.last(t, ws.OpVisualsUpdated)
	assert.True(t, ev.to(acme), "every connection gets the new theme")

	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#FF00AA", again.AccentColor)
}

func TestVisualsLogoReplacement(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewVisualsService(e.visuals, e.uploads, e.hub)
	admin := e.user(t, "boss", models.RoleAdmin)

	first, err := svc.UpdateLogo(ctx, admin, pngReader(t, 64, 32), nil)
	require.NoError(t, err)
	firstURL := first.LogoURL
	assert.FileExists(t, localFile(e, firstURL))

	second, err := svc.UpdateLogo(ctx, admin, pngReader(t, 64, 32), nil)
	require.NoError(t, err)
	assert.NotEqual(t, firstURL, second.LogoURL)
	assert.NoFileExists(t, localFile(e, firstURL))
	assert.Equal(t, 2, e.hub.count(ws.OpVisualsUpdated))
}
