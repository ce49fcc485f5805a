package models

import (
	"fmt"
	"time"
)

// VisualsID, panelin tek tema satırının sabit kimliği.
const VisualsID = "default"

// Logo boyut sınırları (piksel).
const (
	MinLogoDimension = 16
	MaxLogoDimension = 1000
)

// Visuals, panelin global görsel ayarları: logo ve renk paleti.
// Tek satırdır; tüm kullanıcılar ve firmalar aynı temayı görür.
type Visuals struct {
	ID                  string    `json:"id"`
	LogoURL             string    `json:"logo_url"`
	LogoWidth           int       `json:"logo_width"`
	LogoHeight          int       `json:"logo_height"`
	PreserveAspectRatio bool      `json:"preserve_aspect_ratio"`
	PrimaryColor        string    `json:"primary_color"`
	SecondaryColor      string    `json:"secondary_color"`
	AccentColor         string    `json:"accent_color"`
	UpdatedBy           *string   `json:"updated_by"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultVisuals, ilk okumada oluşturulan varsayılan tema.
func DefaultVisuals() Visuals {
	return Visuals{
		ID:                  VisualsID,
		LogoURL:             "/uploads/logos/default-logo.png",
		LogoWidth:           150,
		LogoHeight:          50,
		PreserveAspectRatio: true,
		PrimaryColor:        "#000000",
		SecondaryColor:      "#FFFFFF",
		AccentColor:         DefaultBrandColor,
	}
}

// UpdateVisualsRequest, kısmi tema güncellemesi.
type UpdateVisualsRequest struct {
	LogoWidth           *int    `json:"logo_width"`
	LogoHeight          *int    `json:"logo_height"`
	PreserveAspectRatio *bool   `json:"preserve_aspect_ratio"`
	PrimaryColor        *string `json:"primary_color"`
	SecondaryColor      *string `json:"secondary_color"`
	AccentColor         *string `json:"accent_color"`
}

// Apply, güncellemeyi temaya uygular ve sınırları kontrol eder.
func (r *UpdateVisualsRequest) Apply(v *Visuals) error {
	if r.LogoWidth != nil {
		if err := checkDimension("logo_width", *r.LogoWidth); err != nil {
			return err
		}
		v.LogoWidth = *r.LogoWidth
	}
	if r.LogoHeight != nil {
		if err := checkDimension("logo_height", *r.LogoHeight); err != nil {
			return err
		}
		v.LogoHeight = *r.LogoHeight
	}
	if r.PreserveAspectRatio != nil {
		v.PreserveAspectRatio = *r.PreserveAspectRatio
	}

	colors := []struct {
		name  string
		value *string
		dst   *string
	}{
		{"primary_color", r.PrimaryColor, &v.PrimaryColor},
		{"secondary_color", r.SecondaryColor, &v.SecondaryColor},
		{"accent_color", r.AccentColor, &v.AccentColor},
	}
	for _, c := range colors {
		if c.value == nil {
			continue
		}
		if !IsHexColor(*c.value) {
			return fmt.Errorf("%s must look like #RRGGBB", c.name)
		}
		*c.dst = *c.value
	}

	return nil
}

func checkDimension(name string, v int) error {
	if v < MinLogoDimension || v > MaxLogoDimension {
		return fmt.Errorf("%s must be between %d and %d", name, MinLogoDimension, MaxLogoDimension)
	}
	return nil
}
