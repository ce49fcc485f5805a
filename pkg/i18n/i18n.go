// Package i18n, API hata mesajlarını kullanıcının diline göre döner.
//
// Panel iki dil destekler: İngilizce ve Türkçe. Dil Accept-Language
// header'ından belirlenir, desteklenmeyen diller İngilizce'ye düşer.
//
//	localizer := i18n.NewLocalizer("tr")
//	msg := localizer.T("auth.invalidCredentials")
//	// → "Geçersiz kullanıcı adı veya şifre"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, varsayılan dil.
const DefaultLanguage = "en"

// translations: map[lang]map[key]value. Başlangıçta bir kez yüklenir, sonra sadece okunur.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, çeviri dosyalarını fs.FS'ten yükler. Her dil için <lang>.json beklenir.
// Birden fazla çağrı güvenlidir; dosyalar sadece ilk çağrıda okunur.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			// {"auth": {"login": "..."}} → "auth.login"
			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			zap.L().Named("i18n").Debug("translations loaded",
				zap.String("lang", lang), zap.Int("keys", len(flat)))
		}

		translations = loaded
	})

	return loadErr
}

// LoadEmbedded, binary'ye gömülü locales/ dizinini yükler.
func LoadEmbedded() error {
	sub, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(sub)
}

// Localizer, belirli bir dil için çeviri yapan struct.
type Localizer struct {
	lang string
}

// NewLocalizer, belirli bir dil için Localizer oluşturur.
// Desteklenmeyen dil verilirse varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !isSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın kullandığı dil kodunu döner.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, çeviri anahtarına karşılık gelen metni döner.
// Anahtar bulunamazsa İngilizce'ye, orada da yoksa anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, metindeki {{param}} yer tutucularını değerlerle değiştirir.
//
//	localizer.TWithParams("auth.tooManyAttempts", map[string]string{"seconds": "90"})
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, Accept-Language header'ından en uygun dili belirler.
// Header formatı: "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		lang = strings.ToLower(strings.Split(lang, "-")[0])

		if isSupported(lang) {
			return lang
		}
	}

	return DefaultLanguage
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
