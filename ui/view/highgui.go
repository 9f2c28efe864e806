package view

import (
	"image"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/soocke/rect-annotator/domain/annotate"
)

// OpenCV mouse event codes delivered to the highgui mouse callback.
const (
	cvEventMouseMove   = 0
	cvEventLButtonDown = 1
	cvEventRButtonDown = 2
	cvEventLButtonUp   = 4
	cvEventRButtonUp   = 5
)

const keyEscape = 27

// HighGUI is the annotation window: an OpenCV highgui window showing the working
// canvas, routing mouse events to the active mode and polling trackbars as toggles.
// All methods must be called from the goroutine that created it.
type HighGUI struct {
	name    string
	window  *gocv.Window
	logger  *slog.Logger
	handler annotate.PointerHandler
	toggles map[string]*toggle
	shown   gocv.Mat
	hasMat  bool
	poll    time.Duration
	onQuit  func()
	quit    bool
}

type toggle struct {
	bar      *gocv.Trackbar
	pos      int
	onChange func(int)
}

var _ annotate.Display = (*HighGUI)(nil)

// NewHighGUI opens a window named name.
func NewHighGUI(name string, logger *slog.Logger) *HighGUI {
	h := &HighGUI{
		name:    name,
		window:  gocv.NewWindow(name),
		logger:  logger,
		toggles: make(map[string]*toggle),
		poll:    30 * time.Millisecond,
	}
	h.window.SetMouseHandler(h.onMouse, nil)
	return h
}

// SetOnQuit registers fn to run once when the operator closes the window or presses Esc.
func (h *HighGUI) SetOnQuit(fn func()) {
	if h != nil {
		h.onQuit = fn
	}
}

// SetTitle updates the window title.
func (h *HighGUI) SetTitle(title string) {
	if h == nil || h.window == nil || h.quit {
		return
	}
	h.window.SetWindowTitle(title)
}

func (h *HighGUI) SetPointerHandler(p annotate.PointerHandler) {
	if h != nil {
		h.handler = p
	}
}

// Show converts img to a BGR matrix and displays it.
func (h *HighGUI) Show(img image.Image) {
	if h == nil || h.window == nil || img == nil || h.quit {
		return
	}
	mat, err := matFromImage(img)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("image conversion failed", "error", err)
		}
		return
	}
	h.window.IMShow(mat)
	if h.hasMat {
		_ = h.shown.Close()
	}
	h.shown, h.hasMat = mat, true
}

// AddToggle creates a trackbar, or resets an existing one to 0 and rebinds it.
func (h *HighGUI) AddToggle(name string, max int, onChange func(pos int)) {
	if h == nil || h.window == nil || h.quit {
		return
	}
	if t, ok := h.toggles[name]; ok {
		t.bar.SetPos(0)
		t.pos, t.onChange = 0, onChange
		return
	}
	bar := h.window.CreateTrackbar(name, max)
	h.toggles[name] = &toggle{bar: bar, pos: bar.GetPos(), onChange: onChange}
}

// Wait pumps window events until a key is pressed or the window goes away.
func (h *HighGUI) Wait() {
	if h == nil || h.window == nil || h.quit {
		return
	}
	delay := int(h.poll / time.Millisecond)
	for {
		if !h.window.IsOpen() {
			h.signalQuit()
			return
		}
		key := h.window.WaitKey(delay)
		h.pollToggles()
		if key == keyEscape {
			h.signalQuit()
			return
		}
		if key >= 0 {
			return
		}
	}
}

// Close releases the window and the last shown matrix.
func (h *HighGUI) Close() error {
	if h == nil || h.window == nil {
		return nil
	}
	if h.hasMat {
		_ = h.shown.Close()
		h.hasMat = false
	}
	err := h.window.Close()
	h.window = nil
	return err
}

func (h *HighGUI) signalQuit() {
	if h.quit {
		return
	}
	h.quit = true
	if h.logger != nil {
		h.logger.Info("annotation window closed", "window", h.name)
	}
	if h.onQuit != nil {
		h.onQuit()
	}
}

func (h *HighGUI) pollToggles() {
	for _, t := range h.toggles {
		pos := t.bar.GetPos()
		if pos == t.pos {
			continue
		}
		t.pos = pos
		if t.onChange != nil {
			t.onChange(pos)
		}
	}
}

func (h *HighGUI) onMouse(event, x, y, flags int, _ interface{}) {
	ev, ok := pointerEvent(event, x, y)
	if !ok || h.handler == nil {
		return
	}
	h.handler.HandlePointer(ev)
}

// pointerEvent maps an OpenCV mouse event to a pointer event. Middle button and
// wheel events are dropped.
func pointerEvent(event, x, y int) (annotate.PointerEvent, bool) {
	ev := annotate.PointerEvent{X: x, Y: y}
	switch event {
	case cvEventMouseMove:
		ev.Kind = annotate.PointerMove
	case cvEventLButtonDown:
		ev.Kind, ev.Button = annotate.PointerDown, annotate.ButtonPrimary
	case cvEventRButtonDown:
		ev.Kind, ev.Button = annotate.PointerDown, annotate.ButtonSecondary
	case cvEventLButtonUp:
		ev.Kind, ev.Button = annotate.PointerUp, annotate.ButtonPrimary
	case cvEventRButtonUp:
		ev.Kind, ev.Button = annotate.PointerUp, annotate.ButtonSecondary
	default:
		return annotate.PointerEvent{}, false
	}
	return ev, true
}

// matFromImage packs img into an 8-bit, 3 channel BGR matrix.
func matFromImage(img image.Image) (gocv.Mat, error) {
	return gocv.NewMatFromBytes(img.Bounds().Dy(), img.Bounds().Dx(), gocv.MatTypeCV8UC3, bgrBytes(img))
}

// bgrBytes flattens img row by row into B,G,R triples.
func bgrBytes(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	if n, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := n.Pix[n.PixOffset(b.Min.X, y):n.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				out = append(out, row[i+2], row[i+1], row[i])
			}
		}
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, uint8(bl>>8), uint8(g>>8), uint8(r>>8))
		}
	}
	return out
}
