package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// EventType, bir takvim etkinliğinin görünürlük sınıfı.
type EventType string

const (
	// EventPersonal, oluşturan kişiye (ve admin'lere) ait etkinlik.
	EventPersonal EventType = "personal"
	// EventCompany, bir firmaya atanmış etkinlik; firma takviminde görünür.
	EventCompany EventType = "company"
	// EventShared, tüm çalışanların ortak takviminde görünen etkinlik.
	EventShared EventType = "shared"
)

// Valid, tipin bilinen bir değer olup olmadığını döner.
func (t EventType) Valid() bool {
	return t == EventPersonal || t == EventCompany || t == EventShared
}

// CalendarEvent, bir takvim etkinliği.
//
// ColorHex boşsa listelemede atanmış firmanın marka rengi kullanılır.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Location        string    `json:"location"`
	CreatedBy       string    `json:"created_by"`
	AssignedCompany *string   `json:"assigned_company"`
	CompanyName     *string   `json:"company_name"`
	AssignedEditors []string  `json:"assigned_editors"`
	Type            EventType `json:"type"`
	ColorHex        *string   `json:"color_hex"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsAssigned, userID'nin etkinliğe atanmış editörlerden biri olup olmadığını döner.
func (e *CalendarEvent) IsAssigned(userID string) bool {
	for _, id := range e.AssignedEditors {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateEventRequest, yeni etkinlik verisi.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Location        string    `json:"location"`
	AssignedCompany *string   `json:"assigned_company"`
	AssignedEditors []string  `json:"assigned_editors"`
	Type            EventType `json:"type"`
	ColorHex        *string   `json:"color_hex"`
}

// Validate, alanları normalize eder ve format kurallarını kontrol eder.
func (r *CreateEventRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return fmt.Errorf("title must be at most 200 characters")
	}
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)

	if r.Type == "" {
		r.Type = EventPersonal
	}
	if !r.Type.Valid() {
		return fmt.Errorf("type must be one of personal, company, shared")
	}

	if r.AssignedCompany != nil && strings.TrimSpace(*r.AssignedCompany) == "" {
		r.AssignedCompany = nil
	}
	if r.ColorHex != nil && *r.ColorHex == "" {
		r.ColorHex = nil
	}
	r.AssignedEditors = dedupe(r.AssignedEditors)

	return validateSchedule(r.Date, r.StartTime, r.EndTime, r.ColorHex)
}

// UpdateEventRequest, kısmi etkinlik güncellemesi.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Date            *string    `json:"date"`
	StartTime       *string    `json:"start_time"`
	EndTime         *string    `json:"end_time"`
	Location        *string    `json:"location"`
	AssignedCompany *string    `json:"assigned_company"`
	AssignedEditors *[]string  `json:"assigned_editors"`
	Type            *EventType `json:"type"`
	ColorHex        *string    `json:"color_hex"`
}

// Apply, güncellemeyi mevcut etkinliğe uygular ve sonucu doğrular.
// Boş string olarak gönderilen assigned_company ve color_hex alanı temizler.
func (r *UpdateEventRequest) Apply(e *CalendarEvent) error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > 200 {
			return fmt.Errorf("title must be at most 200 characters")
		}
		e.Title = title
	}
	if r.Description != nil {
		e.Description = strings.TrimSpace(*r.Description)
	}
	if r.Date != nil {
		e.Date = *r.Date
	}
	if r.StartTime != nil {
		e.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		e.EndTime = *r.EndTime
	}
	if r.Location != nil {
		e.Location = strings.TrimSpace(*r.Location)
	}
	if r.AssignedCompany != nil {
		if strings.TrimSpace(*r.AssignedCompany) == "" {
			e.AssignedCompany = nil
		} else {
			id := *r.AssignedCompany
			e.AssignedCompany = &id
		}
	}
	if r.AssignedEditors != nil {
		e.AssignedEditors = dedupe(*r.AssignedEditors)
	}
	if r.Type != nil {
		if !r.Type.Valid() {
			return fmt.Errorf("type must be one of personal, company, shared")
		}
		e.Type = *r.Type
	}
	if r.ColorHex != nil {
		if *r.ColorHex == "" {
			e.ColorHex = nil
		} else {
			color := *r.ColorHex
			e.ColorHex = &color
		}
	}

	return validateSchedule(e.Date, e.StartTime, e.EndTime, e.ColorHex)
}

// EventFilter, etkinlik listeleme filtresi. Görünürlük kuralları
// (firma / editor / admin) service katmanında bu struct'a çevrilir.
type EventFilter struct {
	Range DateRange
	// CompanyID doluysa sadece o firmaya atanmış etkinlikler döner.
	CompanyID string
	// EditorID doluysa editöre atanmış, ortak veya editörün oluşturduğu etkinlikler döner.
	EditorID string
}

func validateSchedule(date, start, end string, color *string) error {
	if !IsDate(date) {
		return fmt.Errorf("date must use the YYYY-MM-DD format")
	}
	if start != "" && !IsClock(start) {
		return fmt.Errorf("start_time must use the HH:MM format")
	}
	if end != "" && !IsClock(end) {
		return fmt.Errorf("end_time must use the HH:MM format")
	}
	if start != "" && end != "" && end <= start {
		return fmt.Errorf("end_time must be after start_time")
	}
	if color != nil && !IsHexColor(*color) {
		return fmt.Errorf("color_hex must look like #RRGGBB")
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
