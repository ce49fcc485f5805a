package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/repository"
)

// ensureUsernameFree, kullanıcı adının ne users ne companies tablosunda
// kullanıldığını kontrol eder. Login önce users tablosuna baktığı için aynı
// adlı bir firma hiç giriş yapamazdı.
func ensureUsernameFree(ctx context.Context, users repository.UserRepository, companies repository.CompanyRepository, username string) error {
	if _, err := users.GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username is already taken", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	if _, err := companies.GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username is already taken", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// requireAdmin, admin olmayan çağıranı ErrForbidden ile reddeder.
func requireAdmin(actor *models.Principal) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", pkg.ErrForbidden)
	}
	return nil
}

// requireOwnerOrAdmin, kaydı oluşturan veya admin değilse ErrForbidden döner.
func requireOwnerOrAdmin(actor *models.Principal, ownerID, what string) error {
	if actor.IsAdmin() || (actor != nil && actor.ID == ownerID) {
		return nil
	}
	return fmt.Errorf("%w: only the creator or an admin can modify this %s", pkg.ErrForbidden, what)
}

// asBadRequest, referans verilen kaydın bulunamamasını istemci hatasına çevirir.
func asBadRequest(err error, what string) error {
	if errors.Is(err, pkg.ErrNotFound) {
		return fmt.Errorf("%w: %s not found", pkg.ErrBadRequest, what)
	}
	return err
}
