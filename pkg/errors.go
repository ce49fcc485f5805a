// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı error'ları bağlamla sarar:
//
//	return fmt.Errorf("%w: company not found", pkg.ErrNotFound)
//
// Handler katmanı errors.Is ile sarılmış zincirde bile doğru sentinel'i bulur
// ve HTTP status koduna çevirir (bkz. mapErrorToStatus).
package pkg

import "errors"

// Domain-level error'lar.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrRateLimited   = errors.New("too many requests")
	ErrInternal      = errors.New("internal error")
)
