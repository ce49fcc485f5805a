package handlers

import (
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/services"
)

// EventHandler, firma takvimi ve ortak takvim endpoint'leri.
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler, constructor.
func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List godoc
// GET /api/events?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	events, err := h.eventService.List(r.Context(), actor, dateRange(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, events)
}

// Create godoc
// POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), actor, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, event)
}

// Update godoc
// PATCH, PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), actor, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, event)
}

// Delete godoc
// DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, message("event deleted"))
}
