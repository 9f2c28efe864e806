package annotate

import (
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// SingleDragMode records one rectangle per press-drag-release gesture of the
// primary button. The rectangle spans the press and release points.
type SingleDragMode struct {
	pass
	state  DragState
	anchor image.Point
}

var _ Mode = (*SingleDragMode)(nil)

func NewSingleDragMode(d Display, style Style, logger *slog.Logger) *SingleDragMode {
	return &SingleDragMode{pass: newPass(d, style, logger)}
}

func (m *SingleDragMode) State() DragState {
	if m == nil {
		return DragIdle
	}
	return m.state
}

// CollectRectangles runs one interactive pass over img.
func (m *SingleDragMode) CollectRectangles(img image.Image) []geometry.Rect {
	if m == nil || m.display == nil || img == nil {
		return nil
	}
	m.begin(images.Clone(img), nil)
	m.state = DragIdle
	return m.run(m)
}

func (m *SingleDragMode) HandlePointer(ev PointerEvent) {
	if m == nil || m.canvas == nil {
		return
	}
	p := ev.Point()
	switch {
	case ev.is(PointerDown, ButtonPrimary) && m.state == DragIdle:
		m.anchor = p
		m.state = Dragging
	case ev.Kind == PointerMove && m.state == Dragging:
		draft := geometry.FromCorners(m.anchor, p)
		m.preview(func(s *image.NRGBA) { m.drawRect(s, draft) })
	case ev.is(PointerUp, ButtonPrimary) && m.state == Dragging:
		m.state = DragIdle
		m.commit(geometry.FromCorners(m.anchor, p))
	}
}
