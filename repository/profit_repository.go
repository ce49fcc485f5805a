package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// PeriodWidth, kazanç özetinde tarihin kaç karakterlik önekine göre
// gruplanacağı: "2025-03" (ay) veya "2025" (yıl).
type PeriodWidth int

const (
	PeriodMonth PeriodWidth = 7
	PeriodYear  PeriodWidth = 4
)

// ProfitRepository, admin kazanç tablosu için interface.
// Tüm okuma ve yazmalar admin_id ile kapsamlanır.
type ProfitRepository interface {
	Create(ctx context.Context, record *models.ProfitRecord) error
	// GetByID, kaydı sadece adminID'ye aitse döner; aksi halde ErrNotFound.
	GetByID(ctx context.Context, adminID, id string) (*models.ProfitRecord, error)
	List(ctx context.Context, adminID string, r models.DateRange) ([]models.ProfitRecord, error)
	Update(ctx context.Context, record *models.ProfitRecord) error
	Delete(ctx context.Context, adminID, id string) error
	// Totals, dönem bazında gelir/gider toplamlarını yeniden eskiye döner.
	Totals(ctx context.Context, adminID string, r models.DateRange, width PeriodWidth) ([]models.ProfitPeriod, error)
}
