package annotate

import (
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// TwoClickMode builds a rectangle from two primary-button clicks interpreted
// according to a click pair, optionally constrained by an aspect ratio.
type TwoClickMode struct {
	pass
	clicks twoClick
}

var _ Mode = (*TwoClickMode)(nil)

// NewTwoClickMode fails when pair needs a ratio and ratio is 0.
func NewTwoClickMode(d Display, pair geometry.ClickPair, ratio geometry.AspectRatio, style Style, logger *slog.Logger) (*TwoClickMode, error) {
	clicks, err := newTwoClick(pair, ratio)
	if err != nil {
		return nil, err
	}
	return &TwoClickMode{pass: newPass(d, style, logger), clicks: clicks}, nil
}

func (m *TwoClickMode) State() ClickState {
	if m == nil {
		return AwaitingFirstClick
	}
	return m.clicks.state
}

func (m *TwoClickMode) CollectRectangles(img image.Image) []geometry.Rect {
	if m == nil || m.display == nil || img == nil {
		return nil
	}
	m.begin(images.Clone(img), nil)
	m.clicks.reset()
	return m.run(m)
}

func (m *TwoClickMode) HandlePointer(ev PointerEvent) {
	if m == nil || m.canvas == nil || !ev.is(PointerUp, ButtonPrimary) {
		return
	}
	p := ev.Point()
	r, done := m.clicks.click(p)
	if !done {
		m.preview(func(s *image.NRGBA) { m.drawMarker(s, p) })
		return
	}
	m.commit(r)
}
