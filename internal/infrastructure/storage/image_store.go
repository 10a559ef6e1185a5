package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Goodness-MArcel/oasis/internal/api/metrics"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	// PublicPrefix is the URL path the upload directory is served under.
	PublicPrefix = "/uploads/courses/"

	MaxImageWidth = 1200
	maxUploadSize = 10 << 20
	jpegQuality   = 85
)

var allowedTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageStore keeps course images on local disk.
type ImageStore struct {
	dir string
	log zerolog.Logger
}

var _ ports.ImageStore = (*ImageStore)(nil)

func NewImageStore(dir string, log zerolog.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir, log: log.With().Str("component", "images").Logger()}, nil
}

// Save sniffs the upload, scales it down to MaxImageWidth and writes it under a
// random name. WebP input is stored as PNG.
func (s *ImageStore) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxUploadSize {
		return "", domain.NewValidationError("image must be at most 10MB")
	}

	mt := mimetype.Detect(data)
	format, ok := allowedTypes[mt.String()]
	if !ok {
		return "", domain.ErrUnsupportedImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domain.ErrUnsupportedImage
	}
	img = fitWidth(img, MaxImageWidth)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out bytes.Buffer
	ext := ".png"
	switch format {
	case "jpeg":
		ext = ".jpg"
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&out, img)
	}
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), out.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	metrics.ImagesStoredTotal.WithLabelValues(strings.TrimPrefix(ext, ".")).Inc()
	s.log.Debug().Str("file", name).Str("source_type", mt.String()).Msg("image stored")
	return PublicPrefix + name, nil
}

// Remove deletes the file behind publicPath. Paths outside PublicPrefix are ignored.
func (s *ImageStore) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// fitWidth scales img down to maxWidth keeping its aspect ratio. Narrower
// images are returned unchanged.
func fitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
