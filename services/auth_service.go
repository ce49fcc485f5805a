// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturur. İş kuralları,
// satır düzeyindeki yetki kontrolleri (firma sadece kendi kayıtlarını görür,
// silme işlemini oluşturan veya admin yapar) ve WebSocket yayınları buradadır.
//
// Service http.Request bilmez, doğrudan SQL çalıştırmaz.
package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/repository"
)

// bcryptCost, şifre hash maliyeti.
const bcryptCost = 12

// tokenIssuer, access token'ların iss claim'i.
const tokenIssuer = "twomark-panel"

// AuthService interface'i, dışarıya açık API.
type AuthService interface {
	// Register, sistemde hiç kullanıcı yokken ilk admin'i oluşturur.
	// Sonrasında ErrForbidden döner.
	Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error)
	// CreateAdmin, kayıt kapalı olsa bile yeni bir admin ekler (CLI).
	CreateAdmin(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// ChangePassword, principal'ın kendi şifresini değiştirir ve tüm
	// oturumlarını kapatır.
	ChangePassword(ctx context.Context, p *models.Principal, req *models.ChangePasswordRequest) error
	// PurgeExpiredSessions, süresi dolmuş refresh oturumlarını siler.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// AuthTokens, login/register/refresh sonrası dönen token çifti.
type AuthTokens struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenType    string            `json:"token_type"`
	User         *models.Principal `json:"user"`
}

type authService struct {
	db          *sql.DB
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	sessionRepo repository.SessionRepository
	policy      *access.Policy
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
	log         *zap.Logger
}

// NewAuthService, constructor.
//
// db: Register'da kullanıcı sayımı ve oluşturma tek transaction'da yapılır.
func NewAuthService(
	db *sql.DB,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	sessionRepo repository.SessionRepository,
	policy *access.Policy,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		sessionRepo: sessionRepo,
		policy:      policy,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
		log:         zap.L().Named("auth"),
	}
}

func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error) {
	req.Role = string(models.RoleAdmin)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Permissions:  []models.Section{},
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		users := repository.NewSQLiteUserRepo(tx)
		count, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: registration is closed", pkg.ErrForbidden)
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bootstrap admin created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return s.generateTokens(ctx, userPrincipal(s.policy, user))
}

func (s *authService) CreateAdmin(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	req.Role = string(models.RoleAdmin)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := ensureUsernameFree(ctx, s.userRepo, s.companyRepo, req.Username); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Permissions:  []models.Section{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("admin created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login, kullanıcı adını önce users, sonra companies tablosunda arar.
// Kullanıcı adları iki tablo arasında benzersiz tutulur.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	invalid := fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return nil, invalid
		}
		return s.generateTokens(ctx, userPrincipal(s.policy, user))
	case !errors.Is(err, pkg.ErrNotFound):
		return nil, err
	}

	company, err := s.companyRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}
	return s.generateTokens(ctx, companyPrincipal(s.policy, company))
}

// RefreshToken, refresh token'ı tek kullanımlık olarak yeni bir çiftle değiştirir.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to delete old session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	p, err := loadPrincipal(ctx, s.userRepo, s.companyRepo, s.policy, session.PrincipalKind, session.PrincipalID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	return s.generateTokens(ctx, p)
}

// Logout, refresh token'ı iptal eder. Bilinmeyen token hata değildir.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.PrincipalID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *authService) ChangePassword(ctx context.Context, p *models.Principal, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	var currentHash string
	switch p.Kind {
	case models.KindUser:
		user, err := s.userRepo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		currentHash = user.PasswordHash
	case models.KindCompany:
		company, err := s.companyRepo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		currentHash = company.PasswordHash
	default:
		return fmt.Errorf("%w: unknown principal kind", pkg.ErrBadRequest)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if p.Kind == models.KindUser {
		err = s.userRepo.UpdatePassword(ctx, p.ID, string(newHash))
	} else {
		err = s.companyRepo.UpdatePassword(ctx, p.ID, string(newHash))
	}
	if err != nil {
		return err
	}

	return s.sessionRepo.DeleteByPrincipal(ctx, p.ID)
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, p *models.Principal) (*AuthTokens, error) {
	now := time.Now()
	accessClaims := &models.TokenClaims{
		PrincipalID: p.ID,
		Kind:        p.Kind,
		Role:        p.Role,
		Username:    p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	accessString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshString := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		PrincipalID:   p.ID,
		PrincipalKind: p.Kind,
		RefreshToken:  refreshString,
		ExpiresAt:     now.Add(s.refreshExp),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		TokenType:    "bearer",
		User:         p,
	}, nil
}
