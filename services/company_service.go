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

// CompanyService, müşteri firmaların yönetimi.
type CompanyService interface {
	// List, çalışanlara tüm firmaları, firma hesabına sadece kendisini döner.
	List(ctx context.Context, actor *models.Principal) ([]models.Company, error)
	Get(ctx context.Context, actor *models.Principal, id string) (*models.Company, error)
	Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error)
	Update(ctx context.Context, id string, req *models.UpdateCompanyRequest) (*models.Company, error)
	UpdateLogo(ctx context.Context, id string, file io.Reader, header *multipart.FileHeader) (*models.Company, error)
	Delete(ctx context.Context, id string) error
}

type companyService struct {
	db          *sql.DB
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	policy      *access.Policy
	uploads     UploadService
	principals  PrincipalCache
	hub         ws.BroadcastAndManage
	log         *zap.Logger
}

// NewCompanyService, constructor.
func NewCompanyService(
	db *sql.DB,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	policy *access.Policy,
	uploads UploadService,
	principals PrincipalCache,
	hub ws.BroadcastAndManage,
) CompanyService {
	return &companyService{
		db:          db,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		policy:      policy,
		uploads:     uploads,
		principals:  principals,
		hub:         hub,
		log:         zap.L().Named("companies"),
	}
}

func (s *companyService) List(ctx context.Context, actor *models.Principal) ([]models.Company, error) {
	if actor.IsCompany() {
		company, err := s.companyRepo.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return []models.Company{*company}, nil
	}
	return s.companyRepo.GetAll(ctx)
}

func (s *companyService) Get(ctx context.Context, actor *models.Principal, id string) (*models.Company, error) {
	if actor.IsCompany() && actor.ID != id {
		return nil, fmt.Errorf("%w: company not found", pkg.ErrNotFound)
	}
	return s.companyRepo.GetByID(ctx, id)
}

func (s *companyService) Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
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

	company := &models.Company{
		Name:          req.Name,
		Username:      req.Username,
		PasswordHash:  hash,
		BrandColorHex: req.BrandColorHex,
		ContactInfo:   req.ContactInfo,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.Staff(), ws.Event{Op: ws.OpCompanyCreated, Data: company})
	return company, nil
}

func (s *companyService) Update(ctx context.Context, id string, req *models.UpdateCompanyRequest) (*models.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.BrandColorHex != nil {
		company.BrandColorHex = *req.BrandColorHex
	}
	if req.ContactInfo != nil {
		company.ContactInfo = *req.ContactInfo
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			if err := repository.NewSQLiteCompanyRepo(tx).UpdatePassword(ctx, id, hash); err != nil {
				return err
			}
			return repository.NewSQLiteSessionRepo(tx).DeleteByPrincipal(ctx, id)
		})
		if err != nil {
			return nil, err
		}
	}

	s.changed(company)
	return company, nil
}

func (s *companyService) UpdateLogo(ctx context.Context, id string, file io.Reader, header *multipart.FileHeader) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := s.uploads.SaveImage(models.UploadDirLogos, file, header)
	if err != nil {
		return nil, err
	}

	old := company.LogoURL
	company.LogoURL = &stored.URL
	if err := s.companyRepo.Update(ctx, company); err != nil {
		s.uploads.Remove(stored.URL)
		return nil, err
	}
	if old != nil {
		s.uploads.Remove(*old)
	}

	s.changed(company)
	return company, nil
}

// Delete, firmayı siler. Ödemeleri cascade ile silinir; gönderi, etkinlik
// ve kazanç kayıtlarındaki firma referansı NULL olur.
func (s *companyService) Delete(ctx context.Context, id string) error {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := repository.NewSQLiteSessionRepo(tx).DeleteByPrincipal(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteCompanyRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if company.LogoURL != nil {
		s.uploads.Remove(*company.LogoURL)
	}

	s.principals.Invalidate(id)
	s.hub.DisconnectPrincipal(id)
	s.hub.Publish(ws.Staff(), ws.Event{Op: ws.OpCompanyDeleted, Data: ws.DeletedData{ID: id}})

	s.log.Info("company deleted", zap.String("company_id", id), zap.String("name", company.Name))
	return nil
}

// changed, firma değişikliğini çalışanlara ve firmanın kendisine yayınlar.
func (s *companyService) changed(company *models.Company) {
	s.principals.Invalidate(company.ID)
	s.hub.UpdatePrincipal(companyPrincipal(s.policy, company))
	s.hub.Publish(ws.AnyOf(ws.Staff(), ws.Principals(company.ID)), ws.Event{Op: ws.OpCompanyUpdated, Data: company})
}
