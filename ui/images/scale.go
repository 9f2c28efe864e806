package images

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// Clone returns a mutable copy of img with bounds starting at (0,0).
func Clone(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	return imaging.Clone(img)
}

// Rescale resizes img by factor f using linear interpolation. A factor of 1 (or a
// non-positive one) returns a plain copy.
func Rescale(img image.Image, f float64) *image.NRGBA {
	if img == nil {
		return nil
	}
	if f <= 0 || f == 1 {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * f))
	h := int(math.Round(float64(b.Dy()) * f))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Linear)
}

// ScaleToFit returns an image scaled so that both width and height fit within
// maxW x maxH, preserving aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	return imaging.Fit(src, maxW, maxH, imaging.NearestNeighbor)
}
