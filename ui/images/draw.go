package images

import (
	"image"
	"image/color"
	"image/draw"
)

// DrawRect strokes the outline of r onto dst with the given line thickness.
// The outline grows inward from r's edges; parts outside dst are clipped.
func DrawRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if dst == nil {
		return
	}
	r = r.Canon()
	if thickness < 1 {
		thickness = 1
	}
	src := image.NewUniform(c)
	t := thickness
	if 2*t > r.Dx() || 2*t > r.Dy() {
		// too thin to have a hollow center
		draw.Draw(dst, r.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
		if r.Dx() == 0 || r.Dy() == 0 {
			fillLine(dst, r, t, src)
		}
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t),
		image.Rect(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// fillLine draws a degenerate (zero width or height) rectangle as a visible line.
func fillLine(dst draw.Image, r image.Rectangle, t int, src image.Image) {
	half := t / 2
	line := image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X-half+t, r.Max.Y-half+t)
	draw.Draw(dst, line.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
}

// DrawMarker draws a cross of the given overall size centered at p.
func DrawMarker(dst draw.Image, p image.Point, c color.Color, size, thickness int) {
	if dst == nil {
		return
	}
	if size < 1 {
		size = 1
	}
	if thickness < 1 {
		thickness = 1
	}
	src := image.NewUniform(c)
	half, th := size/2, thickness/2
	horiz := image.Rect(p.X-half, p.Y-th, p.X-half+size, p.Y-th+thickness)
	vert := image.Rect(p.X-th, p.Y-half, p.X-th+thickness, p.Y-half+size)
	draw.Draw(dst, horiz.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	draw.Draw(dst, vert.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
}
