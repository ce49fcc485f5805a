// Package static, React frontend build çıktısını binary'ye gömer.
//
// Build sırasında client/dist/ içeriği static/dist/ dizinine kopyalanır,
// ardından Go derleyicisi bu dosyaları binary'ye gömer.
//
// Development modunda dist/ içi boş olabilir (.gitkeep); bu durumda Vite dev
// server frontend'i servis eder.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// FrontendFS, dist/ dizinindeki frontend build dosyalarını içerir.
// "all:" prefix'i .gitkeep gibi nokta ile başlayan dosyaları da dahil eder.
//
//go:embed all:dist
var FrontendFS embed.FS

// Handler, gömülü build'i servis eder.
func Handler() http.Handler {
	dist, err := fs.Sub(FrontendFS, "dist")
	if err != nil {
		panic(err)
	}
	return SPAHandler(dist)
}

// SPAHandler, root içindeki dosyaları servis eder; bulunamayan path'ler
// index.html'e düşer (client-side routing). /api/ altındaki bilinmeyen
// path'ler SPA'ya düşmez, 404 alır.
func SPAHandler(root fs.FS) http.Handler {
	files := http.FileServerFS(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}

		index, err := fs.ReadFile(root, "index.html")
		if err != nil {
			http.Error(w, "frontend build not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(index)
	})
}
