package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/stitchtext/stitch"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestWriteFileRoundTripsDimensions(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range Extensions() {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "out"+ext)
			if err := WriteFile(path, sample()); err != nil {
				t.Fatalf("WriteFile error: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()
			cfg, _, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatalf("decode config: %v", err)
			}
			if cfg.Width != 8 || cfg.Height != 4 {
				t.Fatalf("got %dx%d, want 8x4", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestWriteFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	err := WriteFile(path, sample())
	var werr *stitch.ImageWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected ImageWriteError, got %v", err)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat in chain, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("output file should not exist")
	}
}

func TestWriteFileMissingDirectoryLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.png")
	err := WriteFile(path, sample())
	var werr *stitch.ImageWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected ImageWriteError, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files left behind, got %d", len(entries))
	}
}

func TestWriteFileEncodeFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")
	// png 拒绝 0x0 图片，编码在写入中途失败
	err := WriteFile(path, image.NewRGBA(image.Rect(0, 0, 0, 0)))
	var werr *stitch.ImageWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected ImageWriteError, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files left behind, got %d", len(entries))
	}
}

func TestWriteFileReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, format, err := image.DecodeConfig(f); err != nil || format != "png" {
		t.Fatalf("expected a png replacing the stale file, got format=%q err=%v", format, err)
	}
}
