package services

import (
	"context"
	"fmt"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

// EventService, firma takvimi ve ortak takvim etkinlikleri.
type EventService interface {
	List(ctx context.Context, actor *models.Principal, r models.DateRange) ([]models.CalendarEvent, error)
	Create(ctx context.Context, actor *models.Principal, req *models.CreateEventRequest) (*models.CalendarEvent, error)
	Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateEventRequest) (*models.CalendarEvent, error)
	Delete(ctx context.Context, actor *models.Principal, id string) error
}

type eventService struct {
	eventRepo   repository.EventRepository
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	hub         ws.EventPublisher
}

// NewEventService, constructor.
func NewEventService(
	eventRepo repository.EventRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// List görünürlük kuralları:
//   - firma: kendisine atanmış etkinlikler
//   - editor: kendisine atanmış, ortak veya kendi oluşturduğu etkinlikler
//   - admin: hepsi
func (s *eventService) List(ctx context.Context, actor *models.Principal, r models.DateRange) ([]models.CalendarEvent, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	filter := models.EventFilter{Range: r}
	switch {
	case actor.IsCompany():
		filter.CompanyID = actor.ID
	case !actor.IsAdmin():
		filter.EditorID = actor.ID
	}
	return s.eventRepo.List(ctx, filter)
}

func (s *eventService) Create(ctx context.Context, actor *models.Principal, req *models.CreateEventRequest) (*models.CalendarEvent, error) {
	// Firma hesabı sadece kendi takvimine etkinlik ekleyebilir.
	if actor.IsCompany() {
		self := actor.ID
		req.AssignedCompany = &self
		req.Type = models.EventCompany
		req.AssignedEditors = nil
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	event := &models.CalendarEvent{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		CreatedBy:       actor.ID,
		AssignedCompany: req.AssignedCompany,
		AssignedEditors: req.AssignedEditors,
		Type:            req.Type,
		ColorHex:        req.ColorHex,
	}
	if err := s.checkReferences(ctx, event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(eventAudience(created), ws.Event{Op: ws.OpNewEvent, Data: created})
	return created, nil
}

func (s *eventService) Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateEventRequest) (*models.CalendarEvent, error) {
	event, err := s.visibleEvent(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, event.CreatedBy, "event"); err != nil {
		return nil, err
	}

	before := eventAudience(event)

	if err := req.Apply(event); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if actor.IsCompany() {
		self := actor.ID
		event.AssignedCompany = &self
		event.Type = models.EventCompany
		event.AssignedEditors = []string{}
	}
	if err := s.checkReferences(ctx, event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Atamadan çıkarılanlar da güncellemeyi alır; takvimlerinden kaldırırlar.
	s.hub.Publish(ws.AnyOf(before, eventAudience(updated)), ws.Event{Op: ws.OpEventUpdated, Data: updated})
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, actor *models.Principal, id string) error {
	event, err := s.visibleEvent(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(actor, event.CreatedBy, "event"); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(eventAudience(event), ws.Event{Op: ws.OpEventDeleted, Data: ws.DeletedData{ID: id}})
	return nil
}

// visibleEvent, çağıranın listede göremeyeceği etkinliği bulunamadı olarak döner.
func (s *eventService) visibleEvent(ctx context.Context, actor *models.Principal, id string) (*models.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	visible := actor.IsAdmin() || event.CreatedBy == actor.ID
	switch {
	case actor.IsCompany():
		visible = visible || (event.AssignedCompany != nil && *event.AssignedCompany == actor.ID)
	case actor.IsStaff():
		visible = visible || event.Type == models.EventShared || event.IsAssigned(actor.ID)
	}
	if !visible {
		return nil, fmt.Errorf("%w: event not found", pkg.ErrNotFound)
	}
	return event, nil
}

// checkReferences, atanmış firma ve editörlerin var olduğunu doğrular.
// Rengi boş firma etkinliği firmanın marka rengini alır.
func (s *eventService) checkReferences(ctx context.Context, e *models.CalendarEvent) error {
	if e.AssignedCompany != nil {
		company, err := s.companyRepo.GetByID(ctx, *e.AssignedCompany)
		if err != nil {
			return asBadRequest(err, "assigned company")
		}
		if e.ColorHex == nil && company.BrandColorHex != "" {
			brand := company.BrandColorHex
			e.ColorHex = &brand
		}
	}
	if len(e.AssignedEditors) > 0 {
		n, err := s.userRepo.CountExisting(ctx, e.AssignedEditors)
		if err != nil {
			return err
		}
		if n != len(e.AssignedEditors) {
			return fmt.Errorf("%w: assigned editor not found", pkg.ErrBadRequest)
		}
	}
	return nil
}

// eventAudience: admin'ler, oluşturan, atanmış editörler ve firma; ortak
// etkinliklerde tüm çalışanlar.
func eventAudience(e *models.CalendarEvent) ws.Audience {
	ids := append([]string{e.CreatedBy}, e.AssignedEditors...)
	if e.AssignedCompany != nil {
		ids = append(ids, *e.AssignedCompany)
	}

	audience := ws.AnyOf(ws.Admins(), ws.Principals(ids...))
	if e.Type == models.EventShared {
		audience = ws.AnyOf(audience, ws.Staff())
	}
	return audience
}
