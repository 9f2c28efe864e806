package annotate

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// pass holds the per-image working state shared by every mode: the working canvas
// and the rectangles committed so far. It is reset at the start of each image.
type pass struct {
	display Display
	style   Style
	logger  *slog.Logger
	canvas  *image.NRGBA
	rects   []geometry.Rect
}

func newPass(d Display, style Style, logger *slog.Logger) pass {
	if style.Color == nil {
		def := DefaultStyle()
		style.Color = def.Color
	}
	if style.Thickness < 1 {
		style.Thickness = 1
	}
	if style.MarkerSize < 1 {
		style.MarkerSize = DefaultStyle().MarkerSize
	}
	return pass{display: d, style: style, logger: logger}
}

func (p *pass) begin(canvas *image.NRGBA, existing []geometry.Rect) {
	p.canvas = canvas
	p.rects = make([]geometry.Rect, len(existing), len(existing)+30)
	copy(p.rects, existing)
}

// run shows the canvas and blocks until the operator finishes the image.
func (p *pass) run(h PointerHandler) []geometry.Rect {
	p.display.SetPointerHandler(h)
	p.display.Show(p.canvas)
	p.display.Wait()
	p.display.SetPointerHandler(nil)
	return p.Rectangles()
}

func (p *pass) drawRect(dst *image.NRGBA, r geometry.Rect) {
	images.DrawRect(dst, r.Bounds(), p.style.Color, p.style.Thickness)
}

func (p *pass) drawMarker(dst *image.NRGBA, at image.Point) {
	images.DrawMarker(dst, at, p.style.Color, p.style.MarkerSize, p.style.Thickness)
}

// commit draws r permanently, records it and refreshes the display.
func (p *pass) commit(r geometry.Rect) {
	p.drawRect(p.canvas, r)
	p.rects = append(p.rects, r)
	p.display.Show(p.canvas)
	p.debug("rectangle recorded", "rect", r.String(), "count", len(p.rects))
}

// preview shows a scratch copy of the canvas with extra drawing; the canvas itself is untouched.
func (p *pass) preview(draw func(scratch *image.NRGBA)) {
	scratch := images.Clone(p.canvas)
	draw(scratch)
	p.display.Show(scratch)
}

func (p *pass) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

// Rectangles returns a copy of the rectangles recorded in the current or last pass.
func (p *pass) Rectangles() []geometry.Rect {
	out := make([]geometry.Rect, len(p.rects))
	copy(out, p.rects)
	return out
}

// Canvas returns the working canvas with every committed annotation drawn.
func (p *pass) Canvas() image.Image {
	if p.canvas == nil {
		return nil
	}
	return p.canvas
}

// twoClick is the two discrete click gesture shared by TwoClickMode and the editor's add mode.
type twoClick struct {
	pair   geometry.ClickPair
	ratio  geometry.AspectRatio
	state  ClickState
	anchor image.Point
}

func newTwoClick(pair geometry.ClickPair, ratio geometry.AspectRatio) (twoClick, error) {
	if pair.NeedsRatio() && ratio == 0 {
		return twoClick{}, fmt.Errorf("click pair %s requires a non-zero aspect ratio", pair)
	}
	return twoClick{pair: pair, ratio: ratio}, nil
}

// click feeds one click. It returns the finished rectangle and true on the second click.
func (c *twoClick) click(p image.Point) (geometry.Rect, bool) {
	if c.state == AwaitingFirstClick {
		c.anchor = p
		c.state = AwaitingSecondClick
		return geometry.Rect{}, false
	}
	c.state = AwaitingFirstClick
	return c.pair.Build(c.anchor, p, c.ratio), true
}

func (c *twoClick) reset() { c.state = AwaitingFirstClick }
