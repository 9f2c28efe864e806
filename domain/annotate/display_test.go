package annotate

import (
	"image"
	"image/color"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// step is either a pointer event or a toggle move (toggle != "").
type step struct {
	ev     PointerEvent
	toggle string
	pos    int
}

// scriptedDisplay replays a fixed script of operator input from Wait.
type scriptedDisplay struct {
	steps   []step
	handler PointerHandler
	toggles map[string]func(int)
	shown   []image.Image
}

func newScriptedDisplay(steps ...step) *scriptedDisplay {
	return &scriptedDisplay{steps: steps, toggles: map[string]func(int){}}
}

func (d *scriptedDisplay) Show(img image.Image)               { d.shown = append(d.shown, img) }
func (d *scriptedDisplay) SetPointerHandler(h PointerHandler) { d.handler = h }
func (d *scriptedDisplay) AddToggle(name string, max int, onChange func(int)) {
	d.toggles[name] = onChange
}

func (d *scriptedDisplay) Wait() {
	for _, s := range d.steps {
		if s.toggle != "" {
			if fn := d.toggles[s.toggle]; fn != nil {
				fn(s.pos)
			}
			continue
		}
		if d.handler != nil {
			d.handler.HandlePointer(s.ev)
		}
	}
}

func down(x, y int) step  { return step{ev: PointerEvent{Kind: PointerDown, Button: ButtonPrimary, X: x, Y: y}} }
func up(x, y int) step    { return step{ev: PointerEvent{Kind: PointerUp, Button: ButtonPrimary, X: x, Y: y}} }
func move(x, y int) step  { return step{ev: PointerEvent{Kind: PointerMove, X: x, Y: y}} }
func rdown(x, y int) step { return step{ev: PointerEvent{Kind: PointerDown, Button: ButtonSecondary, X: x, Y: y}} }
func rup(x, y int) step   { return step{ev: PointerEvent{Kind: PointerUp, Button: ButtonSecondary, X: x, Y: y}} }
func click(x, y int) []step {
	return []step{down(x, y), up(x, y)}
}
func toggle(pos int) step { return step{toggle: DeleteToggle, pos: pos} }

func blank(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func isStyleColor(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	want := DefaultStyle().Color.(color.RGBA)
	return uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B
}

func flatten(groups ...[]step) []step {
	var out []step
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
