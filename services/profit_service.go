package services

import (
	"context"
	"fmt"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/repository"
)

// ProfitService, admin'in kişisel kazanç tablosu. Her admin sadece kendi
// kayıtlarını görür ve değiştirir; başkasının kaydı bulunamadı döner.
type ProfitService interface {
	List(ctx context.Context, actor *models.Principal, r models.DateRange) ([]models.ProfitRecord, error)
	Create(ctx context.Context, actor *models.Principal, req *models.CreateProfitRequest) (*models.ProfitRecord, error)
	Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateProfitRequest) (*models.ProfitRecord, error)
	Delete(ctx context.Context, actor *models.Principal, id string) error
	// Summary, aylık ve yıllık dönem toplamlarını hesaplar.
	Summary(ctx context.Context, actor *models.Principal, r models.DateRange) (*models.ProfitSummary, error)
}

type profitService struct {
	profitRepo  repository.ProfitRepository
	companyRepo repository.CompanyRepository
}

// NewProfitService, constructor.
func NewProfitService(profitRepo repository.ProfitRepository, companyRepo repository.CompanyRepository) ProfitService {
	return &profitService{profitRepo: profitRepo, companyRepo: companyRepo}
}

func (s *profitService) List(ctx context.Context, actor *models.Principal, r models.DateRange) ([]models.ProfitRecord, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	return s.profitRepo.List(ctx, actor.ID, r)
}

func (s *profitService) Create(ctx context.Context, actor *models.Principal, req *models.CreateProfitRequest) (*models.ProfitRecord, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	profitType, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	record := &models.ProfitRecord{
		AdminID:     actor.ID,
		Type:        profitType,
		Amount:      req.Amount,
		CompanyID:   req.CompanyID,
		CompanyText: req.CompanyText,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := s.linkCompany(ctx, record); err != nil {
		return nil, err
	}

	if err := s.profitRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *profitService) Update(ctx context.Context, actor *models.Principal, id string, req *models.UpdateProfitRequest) (*models.ProfitRecord, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	record, err := s.profitRepo.GetByID(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}

	if err := req.Apply(record); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if req.CompanyID != nil {
		if err := s.linkCompany(ctx, record); err != nil {
			return nil, err
		}
	}

	if err := s.profitRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *profitService) Delete(ctx context.Context, actor *models.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.profitRepo.Delete(ctx, actor.ID, id)
}

func (s *profitService) Summary(ctx context.Context, actor *models.Principal, r models.DateRange) (*models.ProfitSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	monthly, err := s.profitRepo.Totals(ctx, actor.ID, r, repository.PeriodMonth)
	if err != nil {
		return nil, err
	}
	yearly, err := s.profitRepo.Totals(ctx, actor.ID, r, repository.PeriodYear)
	if err != nil {
		return nil, err
	}

	summary := &models.ProfitSummary{Monthly: monthly, Yearly: yearly}
	for _, y := range yearly {
		summary.TotalIncome += y.Income
		summary.TotalExpense += y.Expense
	}
	summary.NetProfit = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

// linkCompany, kayıt bir firmaya bağlanıyorsa firmanın var olduğunu doğrular
// ve serbest metin boşsa firma adıyla doldurur.
func (s *profitService) linkCompany(ctx context.Context, record *models.ProfitRecord) error {
	if record.CompanyID == nil {
		return nil
	}
	company, err := s.companyRepo.GetByID(ctx, *record.CompanyID)
	if err != nil {
		return asBadRequest(err, "company")
	}
	if record.CompanyText == "" {
		record.CompanyText = company.Name
	}
	return nil
}
