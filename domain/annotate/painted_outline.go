package annotate

import (
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// PaintedOutlineMode lets the operator paint over an object while holding the
// primary button. Every processed position whose fixed-size box fits strictly
// inside the rescaled canvas yields a rectangle, reported in original image
// coordinates.
type PaintedOutlineMode struct {
	pass
	scale  float64
	box    image.Point
	marker bool
	state  DragState
}

var _ Mode = (*PaintedOutlineMode)(nil)

// NewPaintedOutlineMode takes the box size in original image pixels. The canvas
// is shown rescaled by scale; a non-positive scale means 1.
func NewPaintedOutlineMode(d Display, box image.Point, scale float64, marker bool, style Style, logger *slog.Logger) *PaintedOutlineMode {
	if scale <= 0 {
		scale = 1
	}
	scaled := geometry.Rect{W: box.X, H: box.Y}.Scale(scale)
	return &PaintedOutlineMode{
		pass:   newPass(d, style, logger),
		scale:  scale,
		box:    image.Point{X: scaled.W, Y: scaled.H},
		marker: marker,
	}
}

func (m *PaintedOutlineMode) State() DragState {
	if m == nil {
		return DragIdle
	}
	return m.state
}

// BoxSize returns the box size in canvas pixels.
func (m *PaintedOutlineMode) BoxSize() image.Point {
	if m == nil {
		return image.Point{}
	}
	return m.box
}

func (m *PaintedOutlineMode) CollectRectangles(img image.Image) []geometry.Rect {
	if m == nil || m.display == nil || img == nil {
		return nil
	}
	m.begin(images.Rescale(img, m.scale), nil)
	m.state = DragIdle
	return m.run(m)
}

func (m *PaintedOutlineMode) HandlePointer(ev PointerEvent) {
	if m == nil || m.canvas == nil {
		return
	}
	switch {
	case ev.is(PointerDown, ButtonPrimary) && m.state == DragIdle:
		m.state = Dragging
		m.process(ev.Point())
	case ev.Kind == PointerMove && m.state == Dragging:
		m.process(ev.Point())
	case ev.is(PointerUp, ButtonPrimary) && m.state == Dragging:
		m.state = DragIdle
		m.process(ev.Point())
	}
}

func (m *PaintedOutlineMode) process(p image.Point) {
	r := geometry.CenteredAt(p, m.box.X, m.box.Y)
	if !r.Inside(m.canvas.Bounds().Size()) {
		m.debug("box outside canvas", "rect", r.String())
		return
	}
	if m.marker {
		m.drawMarker(m.canvas, p)
	} else {
		m.drawRect(m.canvas, r)
	}
	m.rects = append(m.rects, r.Scale(1/m.scale))
	m.display.Show(m.canvas)
}
