package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/email"
	"github.com/twomark/panel/repository"
	"github.com/twomark/panel/ws"
)

// emailTimeout, ödeme bildirimi gönderimi için üst sınır.
const emailTimeout = 10 * time.Second

// PaymentService, firma ödemeleri.
//
// Okuma: firma kendi ödemelerini, admin ve payments bölümüne sahip
// editor'ler tüm ödemeleri görür. Yazma sadece admin'e açıktır.
type PaymentService interface {
	List(ctx context.Context, actor *models.Principal, filter models.PaymentFilter) ([]models.Payment, error)
	Summary(ctx context.Context, actor *models.Principal, filter models.PaymentFilter) (*models.PaymentSummary, error)
	Create(ctx context.Context, actor *models.Principal, req *models.CreatePaymentRequest) (*models.Payment, error)
	Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdatePaymentRequest) (*models.Payment, error)
	Delete(ctx context.Context, actor *models.Principal, id string) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	companyRepo repository.CompanyRepository
	hub         ws.EventPublisher
	mailer      email.Sender // nil olabilir
	log         *zap.Logger
}

// NewPaymentService, constructor. mailer nil ise email bildirimi gönderilmez.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	companyRepo repository.CompanyRepository,
	hub ws.EventPublisher,
	mailer email.Sender,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		companyRepo: companyRepo,
		hub:         hub,
		mailer:      mailer,
		log:         zap.L().Named("payments"),
	}
}

func (s *paymentService) List(ctx context.Context, actor *models.Principal, filter models.PaymentFilter) ([]models.Payment, error) {
	scoped, err := scopePayments(actor, filter)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.List(ctx, scoped)
}

func (s *paymentService) Summary(ctx context.Context, actor *models.Principal, filter models.PaymentFilter) (*models.PaymentSummary, error) {
	scoped, err := scopePayments(actor, filter)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.Summary(ctx, scoped)
}

func (s *paymentService) Create(ctx context.Context, actor *models.Principal, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	status, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, asBadRequest(err, "company")
	}

	payment := &models.Payment{
		CreatedBy: actor.ID,
		CompanyID: company.ID,
		Title:     req.Title,
		Amount:    req.Amount,
		Status:    status,
		Date:      req.Date,
		Notes:     req.Notes,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	payment.CompanyName = company.Name

	s.hub.Publish(paymentAudience(payment.CompanyID), ws.Event{Op: ws.OpNewPayment, Data: payment})
	s.notify(ctx, company, payment)
	return payment, nil
}

func (s *paymentService) Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := payment.Status
	if err := req.Apply(payment); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.hub.Publish(paymentAudience(payment.CompanyID), ws.Event{Op: ws.OpPaymentUpdated, Data: payment})

	if payment.Status != previousStatus {
		if company, err := s.companyRepo.GetByID(ctx, payment.CompanyID); err == nil {
			s.notify(ctx, company, payment)
		}
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, actor *models.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(paymentAudience(payment.CompanyID), ws.Event{Op: ws.OpPaymentDeleted, Data: ws.DeletedData{ID: id}})
	return nil
}

// notify, firmanın iletişim bilgisinde email varsa ödeme bildirimi gönderir.
// Gönderim hatası işlemi başarısız yapmaz, sadece loglanır.
func (s *paymentService) notify(ctx context.Context, company *models.Company, p *models.Payment) {
	if s.mailer == nil {
		return
	}
	to, ok := models.ContactEmail(company.ContactInfo)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	notice := email.PaymentNotice{
		CompanyName: company.Name,
		Title:       p.Title,
		Amount:      p.Amount.String(),
		Date:        p.Date,
		Status:      paymentStatusLabel(p.Status),
		Notes:       p.Notes,
	}
	if err := s.mailer.SendPaymentNotice(ctx, to, notice); err != nil {
		s.log.Warn("payment notice failed", zap.String("payment_id", p.ID), zap.Error(err))
	}
}

func paymentStatusLabel(status models.PaymentStatus) string {
	if status == models.PaymentPaid {
		return "Ödendi"
	}
	return "Ödenecek"
}

// scopePayments, filtreyi çağıranın görebileceği ödemelerle sınırlar.
func scopePayments(actor *models.Principal, filter models.PaymentFilter) (models.PaymentFilter, error) {
	if err := filter.Range.Validate(); err != nil {
		return filter, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	switch {
	case actor.IsCompany():
		filter.CompanyID = actor.ID
	case actor.IsAdmin():
	case actor.IsStaff() && actor.HasSection(models.SectionPayments):
	default:
		return filter, fmt.Errorf("%w: no access to payments", pkg.ErrForbidden)
	}
	return filter, nil
}

// paymentAudience: admin'ler, ödemenin firması ve payments bölümüne sahip editor'ler.
func paymentAudience(companyID string) ws.Audience {
	return ws.AnyOf(ws.Admins(), ws.Principals(companyID), ws.EditorsWith(models.SectionPayments))
}
