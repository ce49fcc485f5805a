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

func newEvents(e *env) EventService {
	return NewEventService(e.events, e.companies, e.users, e.hub)
}

func eventIDs(events []models.CalendarEvent) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestCompanyEventsAreForcedToOwnCalendar(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newEvents(e)
	ayse := e.user(t, "ayse", models.RoleEditor)
	acme := e.company(t, "acme", "")
	globex := e.company(t, "globex", "")

	event, err := svc.Create(ctx, acme, &models.CreateEventRequest{
		Title:           "Shooting",
		Date:            "2025-03-10",
		StartTime:       "10:00",
		EndTime:         "12:00",
		Type:            models.EventShared,
		AssignedCompany: &globex.ID,
		AssignedEditors: []string{ayse.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventCompany, event.Type)
	require.NotNil(t, event.AssignedCompany)
	assert.Equal(t, acme.ID, *event.AssignedCompany)
	assert.Empty(t, event.AssignedEditors)

	require.NotNil(t, event.ColorHex, "company brand color fills an empty event color")
	assert.Equal(t, "#123456", *event.ColorHex)

	ev := e.hub.last(t, ws.OpNewEvent)
	assert.True(t, ev.to(acme))
	assert.False(t, ev.to(globex))
	assert.False(t, ev.to(ayse))

	list, err := svc.List(ctx, globex, models.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(ctx, globex, event.ID, &models.UpdateEventRequest{Title: ptr("Mine now")})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAssigningCompanyFillsBrandColor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newEvents(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	acme := e.company(t, "acme", "")

	event, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "Kickoff", Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Nil(t, event.ColorHex)

	updated, err := svc.Update(ctx, admin, event.ID, &models.UpdateEventRequest{AssignedCompany: &acme.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ColorHex)
	assert.Equal(t, "#123456", *updated.ColorHex)

	ev := e.hub.last(t, ws.OpEventUpdated)
	assert.True(t, ev.to(acme))
	sent, ok := ev.event.Data.(*models.CalendarEvent)
	require.True(t, ok)
	require.NotNil(t, sent.ColorHex)
	assert.Equal(t, "#123456", *sent.ColorHex)

	updated, err = svc.Update(ctx, admin, event.ID, &models.UpdateEventRequest{ColorHex: ptr("#abcdef")})
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", *updated.ColorHex, "explicit color wins over brand color")
}

func TestEditorEventVisibility(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newEvents(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	ayse := e.user(t, "ayse", models.RoleEditor)
	mehmet := e.user(t, "mehmet", models.RoleEditor)

	shared, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "All hands", Date: "2025-03-03", Type: models.EventShared})
	require.NoError(t, err)
	assigned, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "Client call", Date: "2025-03-04", AssignedEditors: []string{ayse.ID}})
	require.NoError(t, err)
	private, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "Budget", Date: "2025-03-05"})
	require.NoError(t, err)
	own, err := svc.Create(ctx, mehmet, &models.CreateEventRequest{Title: "Dentist", Date: "2025-04-01"})
	require.NoError(t, err)

	assert.True(t, e.hub.last(t, ws.OpNewEvent).to(admin), "admins hear about every event")

	list, err := svc.List(ctx, ayse, models.DateRange{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{shared.ID, assigned.ID}, eventIDs(list))

	list, err = svc.List(ctx, mehmet, models.DateRange{Start: "2025-03-01", End: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, []string{shared.ID}, eventIDs(list))

	list, err = svc.List(ctx, admin, models.DateRange{})
	require.NoError(t, err)
	assert.Len(t, list, 4)

	_, err = svc.Update(ctx, ayse, private.ID, &models.UpdateEventRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = svc.Update(ctx, ayse, shared.ID, &models.UpdateEventRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, pkg.ErrForbidden, "visible is not the same as editable")

	assert.ErrorIs(t, svc.Delete(ctx, ayse, own.ID), pkg.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, mehmet, own.ID))

	_, err = svc.List(ctx, ayse, models.DateRange{Start: "2025-04-01", End: "2025-03-01"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestUpdateEventNotifiesRemovedEditors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newEvents(e)
	admin := e.user(t, "boss", models.RoleAdmin)
	ayse := e.user(t, "ayse", models.RoleEditor)
	mehmet := e.user(t, "mehmet", models.RoleEditor)

	event, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "Review", Date: "2025-05-05", AssignedEditors: []string{ayse.ID}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, event.ID, &models.UpdateEventRequest{AssignedEditors: &[]string{mehmet.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{mehmet.ID}, updated.AssignedEditors)

	ev := e.hub.last(t, ws.OpEventUpdated)
	assert.True(t, ev.to(ayse))
	assert.True(t, ev.to(mehmet))
}

func TestCreateEventChecksReferences(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := newEvents(e)
	admin := e.user(t, "boss", models.RoleAdmin)

	_, err := svc.Create(ctx, admin, &models.CreateEventRequest{Title: "x", Date: "2025-01-01", AssignedEditors: []string{"ghost"}})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.Create(ctx, admin, &models.CreateEventRequest{Title: "x", Date: "2025-01-01", AssignedCompany: ptr("ghost")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.Create(ctx, admin, &models.CreateEventRequest{Title: "x", Date: "2025-01-01", StartTime: "14:00", EndTime: "13:00"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}
