// Package imaging, yüklenen görseller için küçük önizleme (thumbnail) üretir.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif" // decoder kaydı
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder kaydı
)

// DefaultMaxSide, thumbnail'ın en uzun kenarı (piksel).
const DefaultMaxSide = 300

// Fit, w×h boyutunu oranı koruyarak maxSide×maxSide kutusuna sığdırır.
// Zaten sığan görseller büyütülmez.
func Fit(w, h, maxSide int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		if nh < 1 {
			nh = 1
		}
		return maxSide, nh
	}
	nw := w * maxSide / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSide
}

// Resize, görseli maxSide×maxSide kutusuna sığacak şekilde ölçekler.
func Resize(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), maxSide)
	if w == b.Dx() && h == b.Dy() {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WriteThumbnail, r'den okunan görselin thumbnail'ını dstBase + uzantı
// yoluna yazar ve yazılan dosya yolunu döner.
//
// JPEG kaynaklar JPEG olarak, diğerleri (png, gif, webp) saydamlık
// kaybolmasın diye PNG olarak kaydedilir.
func WriteThumbnail(r io.Reader, dstBase string, maxSide int) (string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := Resize(src, maxSide)

	ext := ".png"
	if format == "jpeg" {
		ext = ".jpg"
	}
	path := dstBase + ext

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail: %w", err)
	}

	if ext == ".jpg" {
		err = jpeg.Encode(f, thumb, &jpeg.Options{Quality: 85})
	} else {
		err = png.Encode(f, thumb)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return path, nil
}
