package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBrandColor, yeni firmalara atanan marka rengi.
const DefaultBrandColor = "#1CFF00"

// Company, ajansın müşterisi olan bir firma. Firmalar kendi hesaplarıyla
// giriş yapar ve sadece kendilerine ait akış, takvim ve ödemeleri görür.
type Company struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	BrandColorHex string    `json:"brand_color_hex"`
	LogoURL       *string   `json:"logo_url"`
	ContactInfo   string    `json:"contact_info"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCompanyRequest, admin'in yeni firma oluştururken gönderdiği veri.
type CreateCompanyRequest struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	BrandColorHex string `json:"brand_color_hex"`
	ContactInfo   string `json:"contact_info"`
}

// Validate, alanları kırpar, boş rengi varsayılana çeker ve kuralları kontrol eder.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(r.Name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}

	r.Username = strings.TrimSpace(r.Username)
	if err := ValidateUsername(r.Username); err != nil {
		return err
	}

	if len(r.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	r.BrandColorHex = strings.TrimSpace(r.BrandColorHex)
	if r.BrandColorHex == "" {
		r.BrandColorHex = DefaultBrandColor
	}
	if !IsHexColor(r.BrandColorHex) {
		return fmt.Errorf("brand_color_hex must look like #RRGGBB")
	}

	r.ContactInfo = strings.TrimSpace(r.ContactInfo)
	if utf8.RuneCountInString(r.ContactInfo) > 500 {
		return fmt.Errorf("contact_info must be at most 500 characters")
	}

	return nil
}

// UpdateCompanyRequest, kısmi firma güncellemesi. Username değiştirilemez.
type UpdateCompanyRequest struct {
	Name          *string `json:"name"`
	Password      *string `json:"password"`
	BrandColorHex *string `json:"brand_color_hex"`
	ContactInfo   *string `json:"contact_info"`
}

// Validate, gönderilen alanları kontrol eder.
func (r *UpdateCompanyRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return fmt.Errorf("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > 100 {
			return fmt.Errorf("name must be at most 100 characters")
		}
		r.Name = &name
	}

	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	if r.BrandColorHex != nil && !IsHexColor(*r.BrandColorHex) {
		return fmt.Errorf("brand_color_hex must look like #RRGGBB")
	}

	if r.ContactInfo != nil {
		info := strings.TrimSpace(*r.ContactInfo)
		if utf8.RuneCountInString(info) > 500 {
			return fmt.Errorf("contact_info must be at most 500 characters")
		}
		r.ContactInfo = &info
	}

	return nil
}
