package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FeedType, bir gönderinin hangi akışta yayınlandığı.
type FeedType string

const (
	// FeedMain, ajans içi ana akış, sadece çalışanlar görür.
	FeedMain FeedType = "ana_akis"
	// FeedCompany, belirli bir firmaya yönelik akış; hedef firma da görür.
	FeedCompany FeedType = "firma_akisi"
)

// Valid, tipin bilinen bir akış olup olmadığını döner.
func (f FeedType) Valid() bool {
	return f == FeedMain || f == FeedCompany
}

// Post, bir akış gönderisi. CreatorName ve CompanyName listelemede
// JOIN ile doldurulur.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Media         *string   `json:"media"`
	CreatedBy     string    `json:"created_by"`
	CreatorName   string    `json:"creator_name"`
	FeedType      FeedType  `json:"feed_type"`
	TargetCompany *string   `json:"target_company"`
	CompanyName   *string   `json:"company_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreatePostRequest, yeni gönderi verisi.
type CreatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	FeedType      FeedType `json:"feed_type"`
	TargetCompany *string  `json:"target_company"`
}

// Validate, boş feed_type'ı ana akışa çeker. Firma akışı hedef firma ister,
// ana akışta hedef temizlenir.
func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return fmt.Errorf("title must be at most 200 characters")
	}

	r.Content = strings.TrimSpace(r.Content)
	if utf8.RuneCountInString(r.Content) > 10000 {
		return fmt.Errorf("content must be at most 10000 characters")
	}

	if r.FeedType == "" {
		r.FeedType = FeedMain
	}
	if !r.FeedType.Valid() {
		return fmt.Errorf("feed_type must be %s or %s", FeedMain, FeedCompany)
	}

	if r.TargetCompany != nil && strings.TrimSpace(*r.TargetCompany) == "" {
		r.TargetCompany = nil
	}

	switch r.FeedType {
	case FeedCompany:
		if r.TargetCompany == nil {
			return fmt.Errorf("target_company is required for %s posts", FeedCompany)
		}
	case FeedMain:
		r.TargetCompany = nil
	}

	return nil
}

// PostFilter, gönderi listeleme filtresi.
// CompanyID doluysa sadece o firmaya hedeflenmiş firma akışı gönderileri döner.
type PostFilter struct {
	FeedType  FeedType
	CompanyID string
}
