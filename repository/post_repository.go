package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// PostRepository, akış gönderileri için interface.
// Okuma metodları creator_name ve company_name alanlarını JOIN ile doldurur.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List, gönderileri yeniden eskiye sıralı döner.
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	UpdateMedia(ctx context.Context, id string, mediaURL *string) error
	Delete(ctx context.Context, id string) error
}
