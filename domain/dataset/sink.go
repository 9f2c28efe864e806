package dataset

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Format is the encoding of written patches.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatWebP Format = "webp"
)

var ErrUnknownFormat = errors.New("unknown patch format")

// ParseFormat accepts png, jpg/jpeg and webp in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	default:
		return ".png"
	}
}

// Sink writes patches under an output directory.
type Sink struct {
	dir    string
	format Format
}

func NewSink(dir string, format Format) *Sink {
	return &Sink{dir: dir, format: format}
}

func (s *Sink) Format() Format { return s.format }

// EnsureDir creates the output directory if needed.
func (s *Sink) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// PathFor returns the output path of the patch with the given base name.
func (s *Sink) PathFor(name string) string {
	return filepath.Join(s.dir, name+s.format.Ext())
}

// Save encodes img under name (without extension) and returns the written path.
func (s *Sink) Save(name string, img image.Image) (string, error) {
	path := s.PathFor(name)
	var err error
	if s.format == FormatWebP {
		err = saveWebP(path, img)
	} else {
		err = imaging.Save(img, path)
	}
	if err != nil {
		return "", fmt.Errorf("save patch %s: %w", path, err)
	}
	return path, nil
}

func saveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
