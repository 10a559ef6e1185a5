package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

func newTestStore(t *testing.T) (*ImageStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "courses")
	store, err := NewImageStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	return store, dir
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 20, A: 255})
		}
	}
	return img
}

func storedConfig(t *testing.T, dir, publicPath string) (image.Config, string) {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, strings.TrimPrefix(publicPath, PublicPrefix)))
	if err != nil {
		t.Fatalf("open stored image: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode stored image: %v", err)
	}
	return cfg, format
}

// ── Save ────────────────────────────────────────────────────────────────────

func TestImageStore_Save_ResizesWidePNG(t *testing.T) {
	store, dir := newTestStore(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(2400, 600)); err != nil {
		t.Fatal(err)
	}

	publicPath, err := store.Save(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !strings.HasPrefix(publicPath, PublicPrefix) || !strings.HasSuffix(publicPath, ".png") {
		t.Fatalf("unexpected public path %q", publicPath)
	}

	cfg, format := storedConfig(t, dir, publicPath)
	if format != "png" || cfg.Width != 1200 || cfg.Height != 300 {
		t.Fatalf("expected 1200x300 png, got %dx%d %s", cfg.Width, cfg.Height, format)
	}
}

func TestImageStore_Save_DoesNotUpscaleJPEG(t *testing.T) {
	store, dir := newTestStore(t)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(320, 200), nil); err != nil {
		t.Fatal(err)
	}

	publicPath, err := store.Save(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !strings.HasSuffix(publicPath, ".jpg") {
		t.Fatalf("expected .jpg, got %q", publicPath)
	}
	cfg, format := storedConfig(t, dir, publicPath)
	if format != "jpeg" || cfg.Width != 320 || cfg.Height != 200 {
		t.Fatalf("expected untouched 320x200 jpeg, got %dx%d %s", cfg.Width, cfg.Height, format)
	}
}

func TestImageStore_Save_RandomNames(t *testing.T) {
	store, _ := newTestStore(t)

	var a, b bytes.Buffer
	_ = png.Encode(&a, solid(4, 4))
	_ = png.Encode(&b, solid(4, 4))

	p1, err1 := store.Save(context.Background(), &a)
	p2, err2 := store.Save(context.Background(), &b)
	if err1 != nil || err2 != nil {
		t.Fatalf("Save errors: %v %v", err1, err2)
	}
	if p1 == p2 {
		t.Fatalf("expected distinct file names, got %q twice", p1)
	}
}

func TestImageStore_Save_RejectsUnsupported(t *testing.T) {
	store, dir := newTestStore(t)

	for name, payload := range map[string][]byte{
		"text": []byte("definitely not an image"),
		"gif":  []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;"),
	} {
		_, err := store.Save(context.Background(), bytes.NewReader(payload))
		if !errors.Is(err, domain.ErrUnsupportedImage) {
			t.Fatalf("%s: expected ErrUnsupportedImage, got %v", name, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not be written, found %d files", len(entries))
	}
}

// ── Remove ──────────────────────────────────────────────────────────────────

func TestImageStore_Remove(t *testing.T) {
	store, dir := newTestStore(t)

	var buf bytes.Buffer
	_ = png.Encode(&buf, solid(8, 8))
	publicPath, err := store.Save(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := store.Remove(publicPath); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(publicPath, PublicPrefix))); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err = %v", err)
	}

	if err := store.Remove(publicPath); err != nil {
		t.Fatalf("removing a missing file must succeed, got %v", err)
	}
}

func TestImageStore_Remove_IgnoresForeignPaths(t *testing.T) {
	store, _ := newTestStore(t)

	for _, p := range []string{"", "https://cdn.example.com/a.png", "/etc/passwd"} {
		if err := store.Remove(p); err != nil {
			t.Fatalf("Remove(%q) returned error: %v", p, err)
		}
	}
}
