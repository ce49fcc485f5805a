// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz; her tablo için bir interface ve onun
// SQLite implementasyonu vardır. Implementasyonlar database.TxQuerier alır,
// böylece aynı repository transaction içinde de kurulabilir.
//
// Bulunamayan kayıtlar pkg.ErrNotFound, UNIQUE ihlalleri pkg.ErrAlreadyExists
// olarak döner.
package repository

import (
	"context"

	"github.com/twomark/panel/models"
)

// UserRepository, panel kullanıcıları (admin/editor) için interface.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	// Update, full_name, role, permissions ve avatar_url alanlarını yazar.
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
	// CountExisting, verilen id'lerden kaçının users tablosunda olduğunu döner.
	CountExisting(ctx context.Context, ids []string) (int, error)
	Delete(ctx context.Context, id string) error
}
