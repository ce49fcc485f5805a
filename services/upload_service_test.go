package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

func pngReader(t *testing.T, w, h int) io.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

// localFile, /uploads/... URL'sini test upload dizinindeki yola çevirir.
func localFile(e *env, url string) string {
	return filepath.Join(e.uploadDir, filepath.FromSlash(strings.TrimPrefix(url, UploadURLPrefix)))
}

func TestSaveImageWritesFileAndThumbnail(t *testing.T) {
	e := newEnv(t)

	stored, err := e.uploads.SaveImage(models.UploadDirPosts, pngReader(t, 600, 200), &multipart.FileHeader{Size: 1024})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/posts/"))
	assert.True(t, strings.HasSuffix(stored.URL, ".png"))
	assert.Equal(t, "image/png", stored.MimeType)
	assert.FileExists(t, localFile(e, stored.URL))

	require.NotEmpty(t, stored.ThumbnailURL)
	f, err := os.Open(localFile(e, stored.ThumbnailURL))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	e.uploads.Remove(stored.URL)
	assert.NoFileExists(t, localFile(e, stored.URL))
	assert.NoFileExists(t, localFile(e, stored.ThumbnailURL))
}

func TestSaveImageRejects(t *testing.T) {
	e := newEnv(t)

	_, err := e.uploads.SaveImage(models.UploadDirPosts, strings.NewReader("%PDF-1.7 not an image"), nil)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = e.uploads.SaveImage(models.UploadDirPosts, strings.NewReader(""), nil)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = e.uploads.SaveImage(models.UploadDirPosts, pngReader(t, 10, 10), &multipart.FileHeader{Size: 2 << 20})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	// Header küçük bir boyut bildirse de gerçek içerik sınırı aşarsa reddedilir.
	big := io.MultiReader(pngReader(t, 10, 10), bytes.NewReader(make([]byte, 2<<20)))
	_, err = e.uploads.SaveImage(models.UploadDirPosts, big, &multipart.FileHeader{Size: 10})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	entries, _ := os.ReadDir(filepath.Join(e.uploadDir, models.UploadDirPosts))
	assert.Empty(t, entries)

	_, err = e.uploads.SaveImage("../etc", pngReader(t, 10, 10), nil)
	assert.Error(t, err)
}

func TestRemoveIgnoresForeignPaths(t *testing.T) {
	e := newEnv(t)

	outside := filepath.Join(filepath.Dir(e.uploadDir), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	for _, url := range []string{
		"/uploads/../keep.txt",
		"/uploads/posts/../../keep.txt",
		"https://cdn.example/keep.txt",
		"/uploads/",
	} {
		e.uploads.Remove(url)
	}
	assert.FileExists(t, outside)
}
