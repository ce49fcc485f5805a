package models

// Yükleme alt dizinleri. Her biri /uploads/<dir>/ altında servis edilir.
const (
	UploadDirAvatars = "avatars"
	UploadDirLogos   = "logos"
	UploadDirPosts   = "posts"
)

// StoredFile, diske kaydedilmiş bir yüklemenin bilgisi.
// ThumbnailURL, küçük resim üretilemediyse boştur.
type StoredFile struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}
