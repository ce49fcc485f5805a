package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/cache"
	"github.com/twomark/panel/repository"
)

// principalCacheTTL, çözülmüş principal'ların bellekte tutulma süresi.
// Kullanıcı veya firma değişince Invalidate ile hemen düşürülür.
const principalCacheTTL = 30 * time.Second

// TokenValidator, access token doğrulaması. AuthService bunu karşılar.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// PrincipalCache, kullanıcı/firma değişikliklerinde çözülmüş principal'ı
// düşürmek için kullanılan interface.
type PrincipalCache interface {
	Invalidate(principalID string)
}

// PrincipalService, token'dan çağıranı (Principal) çözer.
//
// Yetki kararları token'daki role değil, DB'deki güncel role ve izinlere
// göre verilir; bu yüzden her request'te principal yeniden çözülür
// (kısa süreli cache ile).
type PrincipalService interface {
	PrincipalCache
	Resolve(ctx context.Context, claims *models.TokenClaims) (*models.Principal, error)
	PrincipalFromToken(ctx context.Context, token string) (*models.Principal, error)
	// Close, cache'in temizlik goroutine'ini durdurur.
	Close()
}

type principalService struct {
	tokens      TokenValidator
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	policy      *access.Policy
	cache       *cache.TTLCache[string, *models.Principal]
}

// NewPrincipalService, constructor.
func NewPrincipalService(
	tokens TokenValidator,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	policy *access.Policy,
) PrincipalService {
	return &principalService{
		tokens:      tokens,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		policy:      policy,
		cache:       cache.New[string, *models.Principal](principalCacheTTL, time.Minute),
	}
}

func (s *principalService) PrincipalFromToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, claims)
}

func (s *principalService) Resolve(ctx context.Context, claims *models.TokenClaims) (*models.Principal, error) {
	if p, ok := s.cache.Get(claims.PrincipalID); ok && p.Kind == claims.Kind {
		return p, nil
	}

	p, err := loadPrincipal(ctx, s.userRepo, s.companyRepo, s.policy, claims.Kind, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	s.cache.Set(p.ID, p)
	return p, nil
}

func (s *principalService) Invalidate(principalID string) {
	s.cache.Delete(principalID)
}

func (s *principalService) Close() {
	s.cache.Close()
}

// loadPrincipal, kind'a göre doğru tablodan hesabı okur ve principal'a çevirir.
func loadPrincipal(
	ctx context.Context,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	policy *access.Policy,
	kind models.PrincipalKind,
	id string,
) (*models.Principal, error) {
	switch kind {
	case models.KindUser:
		user, err := users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return userPrincipal(policy, user), nil
	case models.KindCompany:
		company, err := companies.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return companyPrincipal(policy, company), nil
	}
	return nil, fmt.Errorf("%w: unknown principal kind %q", pkg.ErrUnauthorized, kind)
}

func userPrincipal(policy *access.Policy, u *models.User) *models.Principal {
	return &models.Principal{
		ID:        u.ID,
		Kind:      models.KindUser,
		Role:      u.Role,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Sections:  policy.Resolve(u.Role, u.Permissions),
	}
}

func companyPrincipal(policy *access.Policy, c *models.Company) *models.Principal {
	brand := c.BrandColorHex
	return &models.Principal{
		ID:         c.ID,
		Kind:       models.KindCompany,
		Role:       models.RoleCompany,
		Username:   c.Username,
		FullName:   c.Name,
		AvatarURL:  c.LogoURL,
		Sections:   policy.Resolve(models.RoleCompany, nil),
		BrandColor: &brand,
	}
}
