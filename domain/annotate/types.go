package annotate

import (
	"image"
	"image/color"

	"github.com/soocke/rect-annotator/domain/geometry"
)

// EventKind enumerates pointer event kinds delivered by a Display.
type EventKind int

const (
	PointerMove EventKind = iota
	PointerDown
	PointerUp
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// Button identifies the pointer button of a down/up event. Moves carry ButtonNone.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// PointerEvent is a single pointer event in canvas pixel coordinates.
type PointerEvent struct {
	Kind   EventKind
	Button Button
	X, Y   int
}

// Point returns the event position.
func (e PointerEvent) Point() image.Point { return image.Point{X: e.X, Y: e.Y} }

func (e PointerEvent) is(kind EventKind, b Button) bool { return e.Kind == kind && e.Button == b }

// PointerHandler consumes pointer events. Modes and the editor implement it and are
// registered with the Display for the duration of one annotation pass.
type PointerHandler interface {
	HandlePointer(ev PointerEvent)
}

// Display is the window the operator annotates in. Events are delivered
// synchronously, one at a time, from inside Wait.
type Display interface {
	// Show replaces the displayed image.
	Show(img image.Image)
	// SetPointerHandler routes pointer events to h. A nil handler drops events.
	SetPointerHandler(h PointerHandler)
	// AddToggle registers a discrete control with positions 0..max. onChange is
	// invoked with the new position whenever the operator moves it.
	AddToggle(name string, max int, onChange func(pos int))
	// Wait blocks until the operator signals the image is done.
	Wait()
}

// Mode collects rectangles for one image through operator interaction.
type Mode interface {
	PointerHandler
	CollectRectangles(img image.Image) []geometry.Rect
}

// Style controls how annotations are drawn on the working canvas.
type Style struct {
	Color      color.Color
	Thickness  int
	MarkerSize int
}

// DefaultStyle draws 2px blue outlines and 20px markers.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{0, 0, 255, 255}, Thickness: 2, MarkerSize: 20}
}

// DragState is the press/drag sub-state of drag based gestures.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// ClickState is the sub-state of two-click rectangle construction.
type ClickState int

const (
	AwaitingFirstClick ClickState = iota
	AwaitingSecondClick
)

func (s ClickState) String() string {
	if s == AwaitingSecondClick {
		return "awaiting-second"
	}
	return "awaiting-first"
}

// EditMode selects what the editor's gestures do.
type EditMode int

const (
	EditAdd EditMode = iota
	EditDelete
)

func (m EditMode) String() string {
	switch m {
	case EditAdd:
		return "add"
	case EditDelete:
		return "delete"
	default:
		return "unknown"
	}
}
