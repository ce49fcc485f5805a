package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// CompanyRepository, firma hesapları için interface.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByUsername(ctx context.Context, username string) (*models.Company, error)
	GetAll(ctx context.Context) ([]models.Company, error)
	// Update, name, brand_color_hex, contact_info ve logo_url alanlarını yazar.
	Update(ctx context.Context, company *models.Company) error
	UpdatePassword(ctx context.Context, companyID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
