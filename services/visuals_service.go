package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

// VisualsService, panelin global teması (logo ve renkler).
type VisualsService interface {
	// Get, temayı döner; hiç kaydedilmemişse varsayılanı oluşturur.
	Get(ctx context.Context) (*models.Visuals, error)
	Update(ctx context.Context, actor *models.Principal, req *models.UpdateVisualsRequest) (*models.Visuals, error)
	UpdateLogo(ctx context.Context, actor *models.Principal, file io.Reader, header *multipart.FileHeader) (*models.Visuals, error)
}

type visualsService struct {
	visualsRepo repository.VisualsRepository
	uploads     UploadService
	hub         ws.EventPublisher
}

// NewVisualsService, constructor.
func NewVisualsService(visualsRepo repository.VisualsRepository, uploads UploadService, hub ws.EventPublisher) VisualsService {
	return &visualsService{visualsRepo: visualsRepo, uploads: uploads, hub: hub}
}

func (s *visualsService) Get(ctx context.Context) (*models.Visuals, error) {
	v, err := s.visualsRepo.Get(ctx)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	// İki eşzamanlı ilk okuma olabilir; EnsureDefault çakışmada hiçbir şey yapmaz.
	def := models.DefaultVisuals()
	if err := s.visualsRepo.EnsureDefault(ctx, &def); err != nil {
		return nil, err
	}
	return s.visualsRepo.Get(ctx)
}

func (s *visualsService) Update(ctx context.Context, actor *models.Principal, req *models.UpdateVisualsRequest) (*models.Visuals, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	v, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := req.Apply(v); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	return v, s.save(ctx, actor, v)
}

func (s *visualsService) UpdateLogo(ctx context.Context, actor *models.Principal, file io.Reader, header *multipart.FileHeader) (*models.Visuals, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	v, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.uploads.SaveImage(models.UploadDirLogos, file, header)
	if err != nil {
		return nil, err
	}

	old := v.LogoURL
	v.LogoURL = stored.URL
	if err := s.save(ctx, actor, v); err != nil {
		s.uploads.Remove(stored.URL)
		return nil, err
	}
	if old != models.DefaultVisuals().LogoURL {
		s.uploads.Remove(old)
	}
	return v, nil
}

func (s *visualsService) save(ctx context.Context, actor *models.Principal, v *models.Visuals) error {
	by := actor.ID
	v.UpdatedBy = &by
	if err := s.visualsRepo.Save(ctx, v); err != nil {
		return err
	}
	s.hub.Publish(ws.Everyone(), ws.Event{Op: ws.OpVisualsUpdated, Data: v})
	return nil
}
