// Package imaging prepares uploaded pictures for multimodal inference.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/kdduha/caption-generator/backend/internal/metrics"
	"github.com/kdduha/caption-generator/backend/internal/models"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	MaxWidth  = 800
	MaxHeight = 800
	Quality   = 85
	MimeType  = "image/jpeg"

	// MaxPixels bounds the declared size of an upload before it is decoded.
	MaxPixels = 50_000_000
)

// Normalize decodes data, fits it into MaxWidth x MaxHeight without
// enlarging and re-encodes it as JPEG at Quality.
func Normalize(data []byte) ([]byte, error) {
	start := time.Now()

	out, format, err := normalize(data)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ImageNormalizeTotal(status, format)
	metrics.ImageNormalizeDuration(status, format, time.Since(start))

	return out, err
}

func normalize(data []byte) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "unknown", fmt.Errorf("%w: %v", models.ErrImageDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			models.ErrImageDecode, cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("%w: %v", models.ErrImageDecode, err)
	}

	bounds := src.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), MaxWidth, MaxHeight)

	img := src
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		img = dst
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, format, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), format, nil
}

// FitWithin returns the largest size with the aspect of w x h that fits
// into maxW x maxH. Sizes that already fit are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// width is the limiting axis when w/h >= maxW/maxH
	if w*maxH >= h*maxW {
		return maxW, max(1, (h*maxW+w/2)/w)
	}
	return max(1, (w*maxH+h/2)/h), maxH
}
