package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// SessionRepository, refresh token oturumları için interface.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByPrincipal, bir kullanıcının veya firmanın tüm oturumlarını siler.
	DeleteByPrincipal(ctx context.Context, principalID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
