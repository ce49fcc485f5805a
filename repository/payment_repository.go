package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// PaymentRepository, firma ödemeleri için interface.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// List, ödemeleri tarihe göre yeniden eskiye döner.
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, filter models.PaymentFilter) (*models.PaymentSummary, error)
}
