// Package models, panelin domain modellerini (veri yapıları) tanımlar.
//
// Modeller hem veritabanı satırlarının hem de API'den gelen/giden verilerin
// şeklini belirler. Request struct'ları kendi Validate metodlarını taşır;
// service katmanı dönen hatayı pkg.ErrBadRequest ile sarar.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinPasswordLength, kullanıcı ve firma şifreleri için alt sınır.
const MinPasswordLength = 6

// User, bir panel kullanıcısını (admin veya editor) temsil eder.
//
// Permissions sadece editor'ler için anlamlıdır, admin her bölümü görür.
// DB'de JSON dizi olarak saklanır.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Permissions  []Section `json:"permissions"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest, yeni kullanıcı oluştururken gelen veri.
// Role ve Permissions ham etiket olarak gelir, access paketi normalize eder.
type CreateUserRequest struct {
	FullName    string   `json:"full_name"`
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Validate, alanları kırpar ve temel kuralları kontrol eder.
func (r *CreateUserRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if utf8.RuneCountInString(r.FullName) > 100 {
		return fmt.Errorf("full_name must be at most 100 characters")
	}

	r.Username = strings.TrimSpace(r.Username)
	if err := ValidateUsername(r.Username); err != nil {
		return err
	}

	if len(r.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	if strings.TrimSpace(r.Role) == "" {
		return fmt.Errorf("role is required")
	}

	return nil
}

// UpdateUserRequest, kısmi kullanıcı güncellemesi.
// nil alanlar değiştirilmez; boş Password da yok sayılır.
type UpdateUserRequest struct {
	FullName    *string   `json:"full_name"`
	Role        *string   `json:"role"`
	Permissions *[]string `json:"permissions"`
	Password    *string   `json:"password"`
}

// Validate, gönderilen alanları kontrol eder.
func (r *UpdateUserRequest) Validate() error {
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		if name == "" {
			return fmt.Errorf("full_name cannot be empty")
		}
		if utf8.RuneCountInString(name) > 100 {
			return fmt.Errorf("full_name must be at most 100 characters")
		}
		r.FullName = &name
	}

	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	return nil
}

// LoginRequest, login formundan gelen veri. Kullanıcılar ve firmalar aynı
// formu kullanır.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, boş alanları reddeder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

// ChangePasswordRequest, principal'ın kendi şifresini değiştirmesi.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate, yeni şifrenin kurallara uyduğunu kontrol eder.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" || r.NewPassword == "" {
		return fmt.Errorf("current_password and new_password are required")
	}
	if len(r.NewPassword) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if r.CurrentPassword == r.NewPassword {
		return fmt.Errorf("new password must be different from current password")
	}
	return nil
}

// ValidateUsername, kullanıcı ve firma kullanıcı adları için ortak kural:
// 3-32 karakter; harf, rakam, nokta, tire ve alt çizgi.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}
	for _, ch := range username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, dots, dashes and underscores")
		}
	}
	return nil
}

func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '.' || ch == '-'
}
