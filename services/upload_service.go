package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
	"github.com/twomark/panel/pkg/imaging"
)

// UploadURLPrefix, yüklenen dosyaların servis edildiği URL öneki.
const UploadURLPrefix = "/uploads/"

// UploadService, görsel yükleme iş mantığı interface'i.
type UploadService interface {
	// SaveImage, görseli <uploadDir>/<dir>/<uuid><ext> yoluna kaydeder ve
	// yanına bir thumbnail yazmayı dener.
	SaveImage(dir string, file io.Reader, header *multipart.FileHeader) (*models.StoredFile, error)
	// Remove, daha önce SaveImage ile kaydedilmiş bir dosyayı (ve thumbnail'ını)
	// siler. Upload dizini dışını gösteren URL'ler yok sayılır.
	Remove(url string)
}

type uploadService struct {
	uploadDir string
	maxSize   int64
	log       *zap.Logger
}

// NewUploadService, constructor.
func NewUploadService(uploadDir string, maxSize int64) UploadService {
	return &uploadService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
		log:       zap.L().Named("uploads"),
	}
}

// imageExtensions, kabul edilen MIME type'lar ve disk uzantıları.
// MIME type header'dan değil, içeriğin ilk byte'larından tespit edilir.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var uploadDirs = map[string]bool{
	models.UploadDirAvatars: true,
	models.UploadDirLogos:   true,
	models.UploadDirPosts:   true,
}

func (s *uploadService) SaveImage(dir string, file io.Reader, header *multipart.FileHeader) (*models.StoredFile, error) {
	if !uploadDirs[dir] {
		return nil, fmt.Errorf("unknown upload directory %q", dir)
	}
	if header != nil && header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, fmt.Errorf("%w: file is empty", pkg.ErrBadRequest)
	}

	mimeType := http.DetectContentType(head)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: file type not allowed: %s", pkg.ErrBadRequest, mimeType)
	}

	destDir := filepath.Join(s.uploadDir, dir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.NewString()
	destPath := filepath.Join(destDir, id+ext)
	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// +1: sınırı aşan dosyayı yakalamak için bir byte fazlası okunur.
	written, err := io.Copy(dest, io.LimitReader(io.MultiReader(bytes.NewReader(head), file), s.maxSize+1))
	closeErr := dest.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(destPath)
		return nil, fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	stored := &models.StoredFile{
		URL:      UploadURLPrefix + dir + "/" + id + ext,
		MimeType: mimeType,
		Size:     written,
	}

	if thumb, err := s.writeThumbnail(destPath, filepath.Join(destDir, "thumb_"+id)); err != nil {
		s.log.Warn("thumbnail failed", zap.String("file", destPath), zap.Error(err))
	} else {
		stored.ThumbnailURL = UploadURLPrefix + dir + "/" + filepath.Base(thumb)
	}

	return stored, nil
}

func (s *uploadService) writeThumbnail(srcPath, dstBase string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return imaging.WriteThumbnail(f, dstBase, imaging.DefaultMaxSide)
}

func (s *uploadService) Remove(url string) {
	rel, ok := s.localPath(url)
	if !ok {
		return
	}

	full := filepath.Join(s.uploadDir, rel)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove upload", zap.String("file", full), zap.Error(err))
	}

	base := strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
	thumbs, _ := filepath.Glob(filepath.Join(filepath.Dir(full), "thumb_"+base+".*"))
	for _, t := range thumbs {
		_ = os.Remove(t)
	}
}

// localPath, URL'yi upload dizinine göreli "<dir>/<file>" yoluna çevirir.
func (s *uploadService) localPath(url string) (string, bool) {
	if !strings.HasPrefix(url, UploadURLPrefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(url, UploadURLPrefix))
	dir, file := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	if !uploadDirs[dir] || file == "" || strings.HasPrefix(file, ".") {
		return "", false
	}
	return filepath.Join(dir, file), true
}
