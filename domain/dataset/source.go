package dataset

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"
)

// Extensions lists the recognized image extensions, compared case-insensitively.
var Extensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// Source enumerates and decodes the images of one directory (non-recursive).
type Source struct {
	dir    string
	logger *slog.Logger
}

func NewSource(dir string, logger *slog.Logger) *Source {
	return &Source{dir: dir, logger: logger}
}

// IsImage reports whether name carries a recognized extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List returns the full paths of every recognized image in the directory, in
// file name order.
func (s *Source) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", s.dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	if s.logger != nil {
		s.logger.Info("images found", "dir", s.dir, "count", len(paths))
	}
	return paths, nil
}

// Load decodes the image at path, applying EXIF orientation where present.
func (s *Source) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// Size returns the pixel dimensions of img.
func Size(img image.Image) image.Point {
	if img == nil {
		return image.Point{}
	}
	return img.Bounds().Size()
}
