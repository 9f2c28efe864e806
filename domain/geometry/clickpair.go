package geometry

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// AspectRatio is the signed width/height policy applied to drafted rectangles.
//
//	r == 0  keep the drafted extent unchanged
//	r > 0   keep the height, width = round(height * r)
//	r < 0   keep the width, height = round(width / |r|)
type AspectRatio float64

// Apply resizes draft around its center according to the policy.
func (a AspectRatio) Apply(draft Rect) Rect {
	if a == 0 {
		return draft
	}
	c := draft.Center()
	r := math.Abs(float64(a))
	w, h := draft.W, draft.H
	if a > 0 {
		w = round(float64(h) * r)
	} else {
		h = round(float64(w) / r)
	}
	return CenteredAt(c, w, h)
}

// ClickPair selects which two anchor points define a rectangle.
type ClickPair int

const (
	TopLeftBottomRight ClickPair = iota
	CenterTop
	CenterRight
	CenterLeft
	CenterBottom
	TopBottom
	LeftRight
)

var clickPairNames = map[ClickPair]string{
	TopLeftBottomRight: "tl_br",
	CenterTop:          "c_t",
	CenterRight:        "c_r",
	CenterLeft:         "c_l",
	CenterBottom:       "c_b",
	TopBottom:          "t_b",
	LeftRight:          "l_r",
}

func (c ClickPair) String() string {
	if s, ok := clickPairNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseClickPair maps a config name ("tl_br", "c_t", ...) to a ClickPair.
func ParseClickPair(s string) (ClickPair, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range clickPairNames {
		if name == s {
			return c, nil
		}
	}
	return TopLeftBottomRight, fmt.Errorf("unknown click pair %q", s)
}

// NeedsRatio reports whether the pair only observes one dimension, so a non-zero
// aspect ratio is required to derive the other.
func (c ClickPair) NeedsRatio() bool { return c != TopLeftBottomRight }

// Build turns the two observed clicks into the final rectangle. Center anchored
// pairs only see half of the kept extent, so it is doubled before the ratio applies.
// Pairs other than TopLeftBottomRight use the magnitude of ratio; the pair itself
// decides which dimension is kept.
func (c ClickPair) Build(p1, p2 image.Point, ratio AspectRatio) Rect {
	keepH := AspectRatio(math.Abs(float64(ratio)))
	keepW := -keepH
	switch c {
	case CenterTop, CenterBottom:
		d := FromCorners(p1, p2)
		return keepH.Apply(CenteredAt(p1, 2*d.W, 2*d.H))
	case CenterRight, CenterLeft:
		d := FromCorners(p1, p2)
		return keepW.Apply(CenteredAt(p1, 2*d.W, 2*d.H))
	case TopBottom:
		return keepH.Apply(FromCorners(p1, p2))
	case LeftRight:
		return keepW.Apply(FromCorners(p1, p2))
	default:
		return ratio.Apply(FromCorners(p1, p2))
	}
}
