package i18n

import "embed"

// EmbeddedLocales, locales/ dizinindeki JSON çeviri dosyalarını içerir.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
