package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// VisualsRepository, tek satırlık global tema için interface.
type VisualsRepository interface {
	// Get, tema satırını döner; satır yoksa ErrNotFound.
	Get(ctx context.Context) (*models.Visuals, error)
	// EnsureDefault, satır yoksa v'yi yazar; varsa dokunmaz.
	EnsureDefault(ctx context.Context, v *models.Visuals) error
	// Save, tema satırını yazar (upsert) ve updated_at'i yeniler.
	Save(ctx context.Context, v *models.Visuals) error
}
