package models

import "time"

// Session, bir refresh token oturumu.
//
// Refresh token'lar DB'de tutulur; logout'ta, şifre değişikliğinde veya
// hesap silindiğinde ilgili oturumlar silinerek token iptal edilir.
type Session struct {
	ID            string        `json:"id"`
	PrincipalID   string        `json:"principal_id"`
	PrincipalKind PrincipalKind `json:"principal_kind"`
	RefreshToken  string        `json:"-"`
	ExpiresAt     time.Time     `json:"expires_at"`
	CreatedAt     time.Time     `json:"created_at"`
}
