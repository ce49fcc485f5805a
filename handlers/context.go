package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

// contextKey, context'te değer taşımak için kullanılan key tipi.
// String key'ler başka paketlerin key'leriyle çakışabilir.
type contextKey string

// PrincipalContextKey, auth middleware'ın doğruladığı principal'ı taşır.
const PrincipalContextKey contextKey = "principal"

// WithPrincipal, principal'ı context'e ekler.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFrom, context'teki principal'ı döner.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*models.Principal)
	return p, ok && p != nil
}

// principal, context'te principal yoksa 401 yazar.
func principal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		pkg.ErrorT(w, r, http.StatusUnauthorized, "auth.principalNotFound")
		return nil, false
	}
	return p, true
}

// maxJSONBody, JSON request body'leri için üst sınır.
const maxJSONBody = 1 << 20

// decodeJSON, body'yi dst'ye parse eder; başarısızsa 400 yazar.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkg.ErrorT(w, r, http.StatusBadRequest, "request.invalidBody")
		return false
	}
	return true
}

// formFile, multipart "file" alanını okur. Body maxSize'ı (form alanları
// için küçük bir pay ile) aşarsa istek reddedilir.
func formFile(w http.ResponseWriter, r *http.Request, maxSize int64) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkg.Error(w, fmt.Errorf("%w: file is too large", pkg.ErrBadRequest))
			return nil, nil, false
		}
		pkg.ErrorT(w, r, http.StatusBadRequest, "request.fileRequired")
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorT(w, r, http.StatusBadRequest, "request.fileRequired")
		return nil, nil, false
	}
	return file, header, true
}

// dateRange, ?start=&end= query parametrelerini okur. Doğrulama service'te yapılır.
func dateRange(r *http.Request) models.DateRange {
	q := r.URL.Query()
	return models.DateRange{Start: q.Get("start"), End: q.Get("end")}
}

// message, sadece bilgi mesajı taşıyan yanıt gövdesi.
func message(text string) map[string]string {
	return map[string]string{"message": text}
}
