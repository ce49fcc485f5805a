package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/twomark/panel/models"
)

var servedUploadDirs = map[string]bool{
	models.UploadDirAvatars: true,
	models.UploadDirLogos:   true,
	models.UploadDirPosts:   true,
}

// UploadsHandler, yüklenen görselleri upload dizininden servis eder.
type UploadsHandler struct {
	root string
}

// NewUploadsHandler, constructor.
func NewUploadsHandler(root string) *UploadsHandler {
	return &UploadsHandler{root: root}
}

// Serve godoc
// GET /uploads/{dir}/{file}
//
// Sadece bilinen dizinler ve düz dosya isimleri kabul edilir; ".." veya alt
// dizin içeren istekler 404 alır.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	dir := r.PathValue("dir")
	file := r.PathValue("file")

	if !servedUploadDirs[dir] || file == "" || file == "." || file == ".." ||
		strings.ContainsAny(file, `/\`) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, filepath.Join(h.root, dir, file))
}
