package annotate

import (
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// FixedSizeClickMode records a rectangle of a fixed size centered on each
// primary-button click. With markers enabled a cross is drawn at the click
// instead of the outline; the recorded rectangle is the same either way.
type FixedSizeClickMode struct {
	pass
	size   image.Point
	marker bool
	points []image.Point
}

var _ Mode = (*FixedSizeClickMode)(nil)

func NewFixedSizeClickMode(d Display, size image.Point, marker bool, style Style, logger *slog.Logger) *FixedSizeClickMode {
	return &FixedSizeClickMode{pass: newPass(d, style, logger), size: size, marker: marker}
}

// Points returns the click positions of the current or last pass.
func (m *FixedSizeClickMode) Points() []image.Point {
	if m == nil {
		return nil
	}
	out := make([]image.Point, len(m.points))
	copy(out, m.points)
	return out
}

func (m *FixedSizeClickMode) CollectRectangles(img image.Image) []geometry.Rect {
	if m == nil || m.display == nil || img == nil {
		return nil
	}
	m.begin(images.Clone(img), nil)
	m.points = m.points[:0]
	return m.run(m)
}

func (m *FixedSizeClickMode) HandlePointer(ev PointerEvent) {
	if m == nil || m.canvas == nil || !ev.is(PointerUp, ButtonPrimary) {
		return
	}
	p := ev.Point()
	r := geometry.CenteredAt(p, m.size.X, m.size.Y)
	m.points = append(m.points, p)
	if !m.marker {
		m.commit(r)
		return
	}
	m.drawMarker(m.canvas, p)
	m.rects = append(m.rects, r)
	m.display.Show(m.canvas)
	m.debug("rectangle recorded", "rect", r.String(), "count", len(m.rects))
}
