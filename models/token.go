package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token'ın payload'ı.
//
// Kind ile hangi tabloya bakılacağı bilinir (users veya companies).
// Role token'da taşınır ama yetki kararı için her request'te DB'den
// çözülen Principal kullanılır; token'daki rol sadece bilgi amaçlıdır.
type TokenClaims struct {
	PrincipalID string        `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	Role        Role          `json:"role"`
	Username    string        `json:"username"`
	jwt.RegisteredClaims
}
