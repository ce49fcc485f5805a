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

func newPosts(e *env) PostService {
	return NewPostService(e.posts, e.companies, e.policy, e.uploads, e.hub)
}

func TestPostFeedsAndAudiences(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newPosts(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	feedOnly := e.user(t, "ayse", models.RoleEditor, models.SectionMainFeed)
	acme := e.company(t, "acme", "")
	globex := e.company(t, "globex", "")

	main, err := svc.Create(ctx, admin, &models.CreatePostRequest{Title: "Team lunch", TargetCompany: &acme.ID})
	require.NoError(t, err)
	assert.Equal(t, models.FeedMain, main.FeedType)
	assert.Nil(t, main.TargetCompany, "main feed posts have no target")
	assert.Equal(t, "boss", main.CreatorName)

	ev := e.hub.last(t, ws.OpNewPost)
	assert.True(t, ev.to(feedOnly))
	assert.False(t, ev.to(acme))

	forAcme, err := svc.Create(ctx, admin, &models.CreatePostRequest{
		Title: "Campaign draft", FeedType: models.FeedCompany, TargetCompany: &acme.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, forAcme.CompanyName)
	assert.Equal(t, "acme Ltd", *forAcme.CompanyName)

	ev = e.hub.last(t, ws.OpNewPost)
	assert.True(t, ev.to(acme))
	assert.False(t, ev.to(globex))

	posts, err := svc.List(ctx, acme, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, forAcme.ID, posts[0].ID)

	posts, err = svc.List(ctx, globex, "")
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = svc.List(ctx, feedOnly, "")
	require.NoError(t, err)
	require.Len(t, posts, 1, "editor without company_feed sees only the main feed")
	assert.Equal(t, main.ID, posts[0].ID)

	posts, err = svc.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = svc.List(ctx, admin, "sideways")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestCreatePostRules(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newPosts(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	acme := e.company(t, "acme", "")

	_, err := svc.Create(ctx, acme, &models.CreatePostRequest{Title: "Hello"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Create(ctx, admin, &models.CreatePostRequest{Title: "Lost", FeedType: models.FeedCompany})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.Create(ctx, admin, &models.CreatePostRequest{Title: "Lost", FeedType: models.FeedCompany, TargetCompany: ptr("missing")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestWritingToFeedNeedsThatFeedsSection(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newPosts(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	mainOnly := e.user(t, "ayse", models.RoleEditor, models.SectionMainFeed)
	companyOnly := e.user(t, "mehmet", models.RoleEditor, models.SectionCompanyFeed)
	acme := e.company(t, "acme", "")

	_, err := svc.Create(ctx, mainOnly, &models.CreatePostRequest{
		Title: "Leak", FeedType: models.FeedCompany, TargetCompany: &acme.ID,
	})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.Zero(t, e.hub.count(ws.OpNewPost), "target company is not notified")

	_, err = svc.Create(ctx, companyOnly, &models.CreatePostRequest{Title: "Internal"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	forAcme, err := svc.Create(ctx, companyOnly, &models.CreatePostRequest{
		Title: "Brief", FeedType: models.FeedCompany, TargetCompany: &acme.ID,
	})
	require.NoError(t, err)
	assert.True(t, e.hub.last(t, ws.OpNewPost).to(acme))

	_, err = svc.UpdateMedia(ctx, mainOnly, forAcme.ID, pngReader(t, 20, 20), nil)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, mainOnly, forAcme.ID), pkg.ErrForbidden)

	mine, err := svc.Create(ctx, mainOnly, &models.CreatePostRequest{Title: "Standup"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, companyOnly, mine.ID), pkg.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, companyOnly, forAcme.ID))
	require.NoError(t, svc.Delete(ctx, admin, mine.ID))
}

func TestDeletePostCreatorOrAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newPosts(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	ayse := e.user(t, "ayse", models.RoleEditor, models.SectionMainFeed)
	mehmet := e.user(t, "mehmet", models.RoleEditor, models.SectionMainFeed)
	acme := e.company(t, "acme", "")

	post, err := svc.Create(ctx, ayse, &models.CreatePostRequest{Title: "Mine"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, mehmet, post.ID), pkg.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, acme, post.ID), pkg.ErrNotFound, "companies cannot see main feed posts")

	_, err = svc.UpdateMedia(ctx, ayse, post.ID, pngReader(t, 20, 20), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ayse, post.ID))
	assert.Equal(t, 1, e.hub.count(ws.OpPostDeleted))

	other, err := svc.Create(ctx, ayse, &models.CreatePostRequest{Title: "Another"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin, other.ID))
}
