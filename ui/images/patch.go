package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyPatch is returned when a rectangle does not overlap the source image.
var ErrEmptyPatch = errors.New("patch does not overlap image")

// CropPatch cuts the region r out of img. The region is not validated against the
// image: parts outside img are dropped, so a rectangle crossing the border yields
// a partial patch. Degenerate or fully outside regions return ErrEmptyPatch.
// When size is non-zero the patch is resized to exactly size.X x size.Y.
func CropPatch(img image.Image, r image.Rectangle, size image.Point) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	b := img.Bounds()
	// Annotation rectangles are relative to the image origin.
	region := r.Add(b.Min).Intersect(b)
	if region.Empty() {
		return nil, ErrEmptyPatch
	}
	patch := imaging.Crop(img, region)
	if size.X > 0 && size.Y > 0 {
		patch = imaging.Resize(patch, size.X, size.Y, imaging.Lanczos)
	}
	return patch, nil
}
