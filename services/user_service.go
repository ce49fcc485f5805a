package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

// UserService, panel kullanıcılarının (admin/editor) yönetimi.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor *models.Principal, id string) error
	// UpdateAvatar, kullanıcının avatarını değiştirir. Kullanıcı kendisi veya admin olmalı.
	UpdateAvatar(ctx context.Context, actor *models.Principal, id string, file io.Reader, header *multipart.FileHeader) (*models.User, error)
}

type userService struct {
	db          *sql.DB
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	policy      *access.Policy
	uploads     UploadService
	principals  PrincipalCache
	hub         ws.BroadcastAndManage
	log         *zap.Logger
}

// NewUserService, constructor.
//
// db: Delete'te oturumlar ve kullanıcı tek transaction'da silinir.
func NewUserService(
	db *sql.DB,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	policy *access.Policy,
	uploads UploadService,
	principals PrincipalCache,
	hub ws.BroadcastAndManage,
) UserService {
	return &userService{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		policy:      policy,
		uploads:     uploads,
		principals:  principals,
		hub:         hub,
		log:         zap.L().Named("users"),
	}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	role, err := s.staffRole(req.Role)
	if err != nil {
		return nil, err
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
		Role:         role,
		Permissions:  s.grants(role, req.Permissions),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.Admins(), ws.Event{Op: ws.OpUserCreated, Data: user})
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if req.Role != nil {
		role, err := s.staffRole(*req.Role)
		if err != nil {
			return nil, err
		}
		if user.Role == models.RoleAdmin && role != models.RoleAdmin {
			if actor.ID == user.ID {
				return nil, fmt.Errorf("%w: you cannot remove your own admin role", pkg.ErrBadRequest)
			}
			if err := s.ensureAnotherAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.Role = role
	}

	if req.Permissions != nil {
		user.Permissions = s.grants(user.Role, *req.Permissions)
	} else if user.Role == models.RoleAdmin {
		user.Permissions = []models.Section{}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, err
		}
	}

	s.refreshPrincipal(user)
	s.hub.Publish(ws.AnyOf(ws.Admins(), ws.Principals(user.ID)), ws.Event{Op: ws.OpUserUpdated, Data: user})
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *models.Principal, id string) error {
	if actor.ID == id {
		return fmt.Errorf("%w: you cannot delete your own account", pkg.ErrBadRequest)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := repository.NewSQLiteSessionRepo(tx).DeleteByPrincipal(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteUserRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if user.AvatarURL != nil {
		s.uploads.Remove(*user.AvatarURL)
	}

	s.principals.Invalidate(id)
	s.hub.DisconnectPrincipal(id)
	s.hub.Publish(ws.Admins(), ws.Event{Op: ws.OpUserDeleted, Data: ws.DeletedData{ID: id}})

	s.log.Info("user deleted", zap.String("user_id", id), zap.String("by", actor.ID))
	return nil
}

func (s *userService) UpdateAvatar(ctx context.Context, actor *models.Principal, id string, file io.Reader, header *multipart.FileHeader) (*models.User, error) {
	if actor.Kind != models.KindUser || (actor.ID != id && !actor.IsAdmin()) {
		return nil, fmt.Errorf("%w: you can only change your own avatar", pkg.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := s.uploads.SaveImage(models.UploadDirAvatars, file, header)
	if err != nil {
		return nil, err
	}

	old := user.AvatarURL
	user.AvatarURL = &stored.URL
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.uploads.Remove(stored.URL)
		return nil, err
	}
	if old != nil {
		s.uploads.Remove(*old)
	}

	s.refreshPrincipal(user)
	s.hub.Publish(ws.AnyOf(ws.Admins(), ws.Principals(user.ID)), ws.Event{Op: ws.OpUserUpdated, Data: user})
	return user, nil
}

// staffRole, rol etiketini normalize eder; users tablosu firma rolü taşıyamaz.
func (s *userService) staffRole(label string) (models.Role, error) {
	role, err := access.NormalizeRole(label)
	if err != nil {
		return "", fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if role == models.RoleCompany {
		return "", fmt.Errorf("%w: company accounts are managed under companies", pkg.ErrBadRequest)
	}
	return role, nil
}

// grants, editor izinlerini katalog anahtarlarına çevirir. Admin her bölümü
// zaten gördüğü için izin listesi boş saklanır.
func (s *userService) grants(role models.Role, labels []string) []models.Section {
	if role == models.RoleAdmin {
		return []models.Section{}
	}
	return s.policy.NormalizeSections(labels)
}

// ensureAnotherAdmin, son admin'in silinmesini veya düşürülmesini engeller.
func (s *userService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return fmt.Errorf("%w: at least one admin must remain", pkg.ErrBadRequest)
	}
	return nil
}

// refreshPrincipal, cache'i düşürür ve açık bağlantıların principal'ını günceller;
// audience kararları (ör. ödemeleri gören editor'ler) yeni izinlerle verilir.
func (s *userService) refreshPrincipal(user *models.User) {
	s.principals.Invalidate(user.ID)
	s.hub.UpdatePrincipal(userPrincipal(s.policy, user))
}
