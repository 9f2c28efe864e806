package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrEmptyCollection is returned by lookups over an empty rectangle collection.
var ErrEmptyCollection = errors.New("empty rectangle collection")

// Rect is an integer rectangle with a top-left origin. Width and height may be
// zero or negative when built from degenerate input; callers normalize with
// Bounds before using it as a pixel region.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect returns a rectangle from its origin and extent.
func NewRect(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromCorners builds the axis-aligned rectangle with p1 and p2 as opposite corners.
// The result does not depend on the order of the points.
func FromCorners(p1, p2 image.Point) Rect {
	x0, x1 := p1.X, p2.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := p1.Y, p2.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// CenteredAt returns a w x h rectangle whose center is p.
func CenteredAt(p image.Point, w, h int) Rect {
	return Rect{X: p.X - w/2, Y: p.Y - h/2, W: w, H: h}
}

// Center returns the integer center of r.
func (r Rect) Center() image.Point {
	return image.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p image.Point) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}

// Bounds converts r into a canonical image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Scale multiplies every component by f, rounding half away from zero.
func (r Rect) Scale(f float64) Rect {
	return Rect{
		X: round(float64(r.X) * f),
		Y: round(float64(r.Y) * f),
		W: round(float64(r.W) * f),
		H: round(float64(r.H) * f),
	}
}

// Inside reports whether r fits in a canvas of the given size. The test is strict on
// the far edges: a rectangle touching the last column or row is treated as outside.
func (r Rect) Inside(size image.Point) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W < size.X && r.Y+r.H < size.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d x %d from (%d, %d)]", r.W, r.H, r.X, r.Y)
}

// Distance is the Euclidean distance between p and q.
func Distance(p, q image.Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// NearestIndex returns the index of the rectangle whose center is closest to p.
// Ties resolve to the lowest index.
func NearestIndex(rects []Rect, p image.Point) (int, error) {
	if len(rects) == 0 {
		return -1, ErrEmptyCollection
	}
	best, bestDist := 0, Distance(rects[0].Center(), p)
	for i := 1; i < len(rects); i++ {
		if d := Distance(rects[i].Center(), p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// RemoveCentersIn drops every rectangle whose center lies inside box and returns the
// survivors in their original order. The input slice is not modified.
func RemoveCentersIn(rects []Rect, box Rect) []Rect {
	out := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if box.Contains(r.Center()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func round(v float64) int { return int(math.Round(v)) }
