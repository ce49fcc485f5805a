package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

// PostService, ana akış ve firma akışı gönderileri.
type PostService interface {
	// List, çağıranın görebileceği gönderileri yeniden eskiye döner.
	// feedType boşsa çağıranın erişebildiği tüm akışlar listelenir.
	List(ctx context.Context, actor *models.Principal, feedType models.FeedType) ([]models.Post, error)
	Create(ctx context.Context, actor *models.Principal, req *models.CreatePostRequest) (*models.Post, error)
	UpdateMedia(ctx context.Context, actor *models.Principal, id string, file io.Reader, header *multipart.FileHeader) (*models.Post, error)
	Delete(ctx context.Context, actor *models.Principal, id string) error
}

type postService struct {
	postRepo    repository.PostRepository
	companyRepo repository.CompanyRepository
	policy      *access.Policy
	uploads     UploadService
	hub         ws.EventPublisher
}

// NewPostService, constructor.
func NewPostService(
	postRepo repository.PostRepository,
	companyRepo repository.CompanyRepository,
	policy *access.Policy,
	uploads UploadService,
	hub ws.EventPublisher,
) PostService {
	return &postService{
		postRepo:    postRepo,
		companyRepo: companyRepo,
		policy:      policy,
		uploads:     uploads,
		hub:         hub,
	}
}

// List kuralları:
//   - firma: sadece kendisine hedeflenmiş firma akışı gönderileri
//   - çalışan: bölüm izinlerinin açtığı akışlar; tek akışa izni varsa
//     istenen akıştan bağımsız olarak o akış
func (s *postService) List(ctx context.Context, actor *models.Principal, feedType models.FeedType) ([]models.Post, error) {
	if feedType != "" && !feedType.Valid() {
		return nil, fmt.Errorf("%w: feed_type must be %s or %s", pkg.ErrBadRequest, models.FeedMain, models.FeedCompany)
	}

	if actor.IsCompany() {
		return s.postRepo.List(ctx, models.PostFilter{FeedType: models.FeedCompany, CompanyID: actor.ID})
	}

	canMain := s.policy.Can(actor, models.SectionMainFeed)
	canCompany := s.policy.Can(actor, models.SectionCompanyFeed)

	switch {
	case canMain && canCompany:
	case canMain:
		if feedType == models.FeedCompany {
			return []models.Post{}, nil
		}
		feedType = models.FeedMain
	case canCompany:
		if feedType == models.FeedMain {
			return []models.Post{}, nil
		}
		feedType = models.FeedCompany
	default:
		return nil, fmt.Errorf("%w: no feed access", pkg.ErrForbidden)
	}

	return s.postRepo.List(ctx, models.PostFilter{FeedType: feedType})
}

func (s *postService) Create(ctx context.Context, actor *models.Principal, req *models.CreatePostRequest) (*models.Post, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can publish posts", pkg.ErrForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := s.requireFeedAccess(actor, req.FeedType); err != nil {
		return nil, err
	}

	if req.TargetCompany != nil {
		if _, err := s.companyRepo.GetByID(ctx, *req.TargetCompany); err != nil {
			return nil, asBadRequest(err, "target company")
		}
	}

	post := &models.Post{
		Title:         req.Title,
		Content:       req.Content,
		CreatedBy:     actor.ID,
		FeedType:      req.FeedType,
		TargetCompany: req.TargetCompany,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// CreatorName / CompanyName JOIN ile gelir.
	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(postAudience(created), ws.Event{Op: ws.OpNewPost, Data: created})
	return created, nil
}

func (s *postService) UpdateMedia(ctx context.Context, actor *models.Principal, id string, file io.Reader, header *multipart.FileHeader) (*models.Post, error) {
	post, err := s.visiblePost(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireFeedAccess(actor, post.FeedType); err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, post.CreatedBy, "post"); err != nil {
		return nil, err
	}

	stored, err := s.uploads.SaveImage(models.UploadDirPosts, file, header)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateMedia(ctx, id, &stored.URL); err != nil {
		s.uploads.Remove(stored.URL)
		return nil, err
	}
	if post.Media != nil {
		s.uploads.Remove(*post.Media)
	}

	post.Media = &stored.URL
	return post, nil
}

func (s *postService) Delete(ctx context.Context, actor *models.Principal, id string) error {
	post, err := s.visiblePost(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.requireFeedAccess(actor, post.FeedType); err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(actor, post.CreatedBy, "post"); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	if post.Media != nil {
		s.uploads.Remove(*post.Media)
	}

	s.hub.Publish(postAudience(post), ws.Event{Op: ws.OpPostDeleted, Data: ws.DeletedData{ID: id}})
	return nil
}

// requireFeedAccess: yazma işlemleri akışın kendi bölüm iznini ister;
// ana akış izni firma akışına yazmayı açmaz.
func (s *postService) requireFeedAccess(actor *models.Principal, feed models.FeedType) error {
	section := models.SectionMainFeed
	if feed == models.FeedCompany {
		section = models.SectionCompanyFeed
	}
	if !s.policy.Can(actor, section) {
		return fmt.Errorf("%w: no access to %s feed", pkg.ErrForbidden, feed)
	}
	return nil
}

// visiblePost, firma hesabının başka firmaların gönderilerinin varlığını
// öğrenememesi için görünmeyen gönderiyi bulunamadı olarak döner.
func (s *postService) visiblePost(ctx context.Context, actor *models.Principal, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsCompany() && (post.TargetCompany == nil || *post.TargetCompany != actor.ID) {
		return nil, fmt.Errorf("%w: post not found", pkg.ErrNotFound)
	}
	return post, nil
}

// postAudience: çalışanlar her gönderiyi, hedef firma sadece kendisine
// yönelik firma akışı gönderilerini alır.
func postAudience(p *models.Post) ws.Audience {
	if p.FeedType == models.FeedCompany && p.TargetCompany != nil {
		return ws.AnyOf(ws.Staff(), ws.Principals(*p.TargetCompany))
	}
	return ws.Staff()
}
