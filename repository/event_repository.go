package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// EventRepository, takvim etkinlikleri için interface.
type EventRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	// List, filtreye uyan etkinlikleri tarih ve saat sırasıyla döner.
	// color_hex boşsa atanmış firmanın marka rengi döner.
	List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error)
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}
