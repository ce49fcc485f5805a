package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ProfitType, kazanç tablosundaki kaydın yönü.
type ProfitType string

const (
	ProfitIncome  ProfitType = "gelir"
	ProfitExpense ProfitType = "gider"
)

// ParseProfitType, "gelir"/"gider" ve İngilizce karşılıklarını kabul eder.
func ParseProfitType(s string) (ProfitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gelir", "income":
		return ProfitIncome, nil
	case "gider", "expense":
		return ProfitExpense, nil
	}
	return "", fmt.Errorf("type must be gelir or gider")
}

// ProfitRecord, admin'in kişisel kazanç tablosundaki bir gelir/gider kaydı.
// Kayıtlar oluşturan admin'e aittir; başka admin'ler görmez.
type ProfitRecord struct {
	ID          string     `json:"id"`
	AdminID     string     `json:"admin_id"`
	Type        ProfitType `json:"type"`
	Amount      Money      `json:"amount"`
	CompanyID   *string    `json:"company_id"`
	CompanyText string     `json:"company_text"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateProfitRequest, yeni kazanç kaydı.
// CompanyID kayıtlı bir firmaya, CompanyText serbest metin karşı tarafa işaret eder.
type CreateProfitRequest struct {
	Type        string  `json:"type"`
	Amount      Money   `json:"amount"`
	CompanyID   *string `json:"company_id"`
	CompanyText string  `json:"company_text"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Validate, kaydı kontrol eder ve normalize edilmiş tipi döner.
func (r *CreateProfitRequest) Validate() (ProfitType, error) {
	t, err := ParseProfitType(r.Type)
	if err != nil {
		return "", err
	}
	if r.Amount <= 0 {
		return "", fmt.Errorf("amount must be greater than zero")
	}
	if !IsDate(r.Date) {
		return "", fmt.Errorf("date must use the YYYY-MM-DD format")
	}
	if r.CompanyID != nil && strings.TrimSpace(*r.CompanyID) == "" {
		r.CompanyID = nil
	}
	r.CompanyText = strings.TrimSpace(r.CompanyText)
	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > 1000 {
		return "", fmt.Errorf("description must be at most 1000 characters")
	}
	return t, nil
}

// UpdateProfitRequest, kısmi kazanç kaydı güncellemesi.
type UpdateProfitRequest struct {
	Type        *string `json:"type"`
	Amount      *Money  `json:"amount"`
	CompanyID   *string `json:"company_id"`
	CompanyText *string `json:"company_text"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

// Apply, güncellemeyi kayda uygular. Boş company_id bağlantıyı kaldırır.
func (r *UpdateProfitRequest) Apply(p *ProfitRecord) error {
	if r.Type != nil {
		t, err := ParseProfitType(*r.Type)
		if err != nil {
			return err
		}
		p.Type = t
	}
	if r.Amount != nil {
		if *r.Amount <= 0 {
			return fmt.Errorf("amount must be greater than zero")
		}
		p.Amount = *r.Amount
	}
	if r.CompanyID != nil {
		if strings.TrimSpace(*r.CompanyID) == "" {
			p.CompanyID = nil
		} else {
			id := *r.CompanyID
			p.CompanyID = &id
		}
	}
	if r.CompanyText != nil {
		p.CompanyText = strings.TrimSpace(*r.CompanyText)
	}
	if r.Description != nil {
		desc := strings.TrimSpace(*r.Description)
		if utf8.RuneCountInString(desc) > 1000 {
			return fmt.Errorf("description must be at most 1000 characters")
		}
		p.Description = desc
	}
	if r.Date != nil {
		if !IsDate(*r.Date) {
			return fmt.Errorf("date must use the YYYY-MM-DD format")
		}
		p.Date = *r.Date
	}
	return nil
}

// ProfitPeriod, bir ay ("2025-03") veya yıl ("2025") için toplamlar.
type ProfitPeriod struct {
	Period  string `json:"period"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Net     Money  `json:"net"`
	Count   int    `json:"count"`
}

// ProfitSummary, kazanç tablosunun özet görünümü. Dönemler yeniden eskiye sıralıdır.
type ProfitSummary struct {
	TotalIncome  Money          `json:"total_income"`
	TotalExpense Money          `json:"total_expense"`
	NetProfit    Money          `json:"net_profit"`
	Monthly      []ProfitPeriod `json:"monthly"`
	Yearly       []ProfitPeriod `json:"yearly"`
}
