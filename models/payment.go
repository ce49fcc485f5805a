package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// PaymentStatus, bir firma ödemesinin durumu.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "odenecek"
	PaymentPaid    PaymentStatus = "odendi"
)

// ParsePaymentStatus, "odenecek"/"odendi" ve İngilizce karşılıklarını kabul eder.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "odenecek", "pending":
		return PaymentPending, nil
	case "odendi", "paid":
		return PaymentPaid, nil
	}
	return "", fmt.Errorf("status must be odenecek or odendi")
}

// Payment, bir firmadan beklenen veya alınmış ödeme.
type Payment struct {
	ID          string        `json:"id"`
	CreatedBy   string        `json:"created_by"`
	CompanyID   string        `json:"company_id"`
	CompanyName string        `json:"company_name"`
	Title       string        `json:"title"`
	Amount      Money         `json:"amount"`
	Status      PaymentStatus `json:"status"`
	Date        string        `json:"date"`
	Notes       string        `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreatePaymentRequest, admin'in yeni ödeme kaydı.
type CreatePaymentRequest struct {
	CompanyID string `json:"company_id"`
	Title     string `json:"title"`
	Amount    Money  `json:"amount"`
	Status    string `json:"status"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

// Validate, kaydı kontrol eder ve normalize edilmiş durumu döner.
// Boş durum "odenecek" kabul edilir.
func (r *CreatePaymentRequest) Validate() (PaymentStatus, error) {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	if r.CompanyID == "" {
		return "", fmt.Errorf("company_id is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "", fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return "", fmt.Errorf("title must be at most 200 characters")
	}
	if r.Amount <= 0 {
		return "", fmt.Errorf("amount must be greater than zero")
	}
	if !IsDate(r.Date) {
		return "", fmt.Errorf("date must use the YYYY-MM-DD format")
	}
	r.Notes = strings.TrimSpace(r.Notes)

	status := PaymentPending
	if strings.TrimSpace(r.Status) != "" {
		s, err := ParsePaymentStatus(r.Status)
		if err != nil {
			return "", err
		}
		status = s
	}
	return status, nil
}

// UpdatePaymentRequest, kısmi ödeme güncellemesi. Firma değiştirilemez.
type UpdatePaymentRequest struct {
	Title  *string `json:"title"`
	Amount *Money  `json:"amount"`
	Status *string `json:"status"`
	Date   *string `json:"date"`
	Notes  *string `json:"notes"`
}

// Apply, güncellemeyi ödemeye uygular.
func (r *UpdatePaymentRequest) Apply(p *Payment) error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > 200 {
			return fmt.Errorf("title must be at most 200 characters")
		}
		p.Title = title
	}
	if r.Amount != nil {
		if *r.Amount <= 0 {
			return fmt.Errorf("amount must be greater than zero")
		}
		p.Amount = *r.Amount
	}
	if r.Status != nil {
		s, err := ParsePaymentStatus(*r.Status)
		if err != nil {
			return err
		}
		p.Status = s
	}
	if r.Date != nil {
		if !IsDate(*r.Date) {
			return fmt.Errorf("date must use the YYYY-MM-DD format")
		}
		p.Date = *r.Date
	}
	if r.Notes != nil {
		p.Notes = strings.TrimSpace(*r.Notes)
	}
	return nil
}

// PaymentFilter, ödeme listeleme filtresi.
type PaymentFilter struct {
	CompanyID string
	Range     DateRange
}

// PaymentSummary, görünür ödemelerin durum bazında toplamları.
type PaymentSummary struct {
	PendingTotal Money `json:"pending_total"`
	PendingCount int   `json:"pending_count"`
	PaidTotal    Money `json:"paid_total"`
	PaidCount    int   `json:"paid_count"`
}
