package annotate

import (
	"image"
	"testing"

	"github.com/soocke/rect-annotator/domain/geometry"
)

func TestSingleDragMode_CommitsOnRelease(t *testing.T) {
	d := newScriptedDisplay(down(10, 10), move(30, 30), move(40, 35), up(50, 40))
	m := NewSingleDragMode(d, DefaultStyle(), discardLogger)
	img := blank(100, 100)
	got := m.CollectRectangles(img)
	want := []geometry.Rect{{X: 10, Y: 10, W: 40, H: 30}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !isStyleColor(m.Canvas(), 10, 10) {
		t.Fatalf("committed rectangle should be drawn on the canvas")
	}
	if isStyleColor(img, 10, 10) {
		t.Fatalf("source image must not be modified")
	}
	if m.State() != DragIdle {
		t.Fatalf("expected idle after release, got %v", m.State())
	}
}

func TestSingleDragMode_PreviewLeavesCanvasClean(t *testing.T) {
	d := newScriptedDisplay(down(10, 10), move(30, 30))
	m := NewSingleDragMode(d, DefaultStyle(), discardLogger)
	if got := m.CollectRectangles(blank(100, 100)); len(got) != 0 {
		t.Fatalf("no release, expected nothing recorded, got %v", got)
	}
	if isStyleColor(m.Canvas(), 10, 10) {
		t.Fatalf("preview must not touch the working canvas")
	}
	last := d.shown[len(d.shown)-1]
	if !isStyleColor(last, 10, 10) {
		t.Fatalf("preview should be shown")
	}
	if m.State() != Dragging {
		t.Fatalf("expected dragging, got %v", m.State())
	}
}

func TestSingleDragMode_ReverseDragAndDegenerate(t *testing.T) {
	d := newScriptedDisplay(down(50, 40), up(10, 10), down(5, 5), up(5, 5), up(70, 70))
	m := NewSingleDragMode(d, DefaultStyle(), discardLogger)
	got := m.CollectRectangles(blank(100, 100))
	if len(got) != 2 {
		t.Fatalf("expected 2 rectangles, got %v", got)
	}
	if got[0] != (geometry.Rect{X: 10, Y: 10, W: 40, H: 30}) {
		t.Fatalf("reverse drag should normalize, got %v", got[0])
	}
	if got[1] != (geometry.Rect{X: 5, Y: 5}) {
		t.Fatalf("degenerate drag should pass through, got %v", got[1])
	}
}

func TestSingleDragMode_NewImageResets(t *testing.T) {
	d := newScriptedDisplay(down(0, 0), up(10, 10))
	m := NewSingleDragMode(d, DefaultStyle(), discardLogger)
	m.CollectRectangles(blank(50, 50))
	if got := m.CollectRectangles(blank(50, 50)); len(got) != 1 {
		t.Fatalf("each image starts empty, got %v", got)
	}
}

func TestTwoClickMode_TopLeftBottomRight(t *testing.T) {
	d := newScriptedDisplay(flatten(click(10, 10), click(50, 90), click(60, 60))...)
	m, err := NewTwoClickMode(d, geometry.TopLeftBottomRight, 0, DefaultStyle(), discardLogger)
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	got := m.CollectRectangles(blank(100, 100))
	if len(got) != 1 || got[0] != (geometry.Rect{X: 10, Y: 10, W: 40, H: 80}) {
		t.Fatalf("unexpected rectangles %v", got)
	}
	if m.State() != AwaitingSecondClick {
		t.Fatalf("third click should wait for its pair, got %v", m.State())
	}
	if isStyleColor(m.Canvas(), 60, 60) {
		t.Fatalf("first-click marker is preview only")
	}
}

func TestTwoClickMode_CenterTopWithRatio(t *testing.T) {
	d := newScriptedDisplay(up(100, 100), up(100, 80))
	m, err := NewTwoClickMode(d, geometry.CenterTop, 0.5, DefaultStyle(), discardLogger)
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}
	got := m.CollectRectangles(blank(200, 200))
	if len(got) != 1 || got[0] != (geometry.Rect{X: 90, Y: 80, W: 20, H: 40}) {
		t.Fatalf("unexpected rectangles %v", got)
	}
}

func TestTwoClickMode_RequiresRatio(t *testing.T) {
	if _, err := NewTwoClickMode(newScriptedDisplay(), geometry.CenterTop, 0, DefaultStyle(), nil); err == nil {
		t.Fatalf("expected error for zero ratio")
	}
}

func TestFixedSizeClickMode_CentersEachClick(t *testing.T) {
	for _, marker := range []bool{false, true} {
		d := newScriptedDisplay(flatten(click(100, 100), click(10, 10))...)
		m := NewFixedSizeClickMode(d, image.Pt(20, 40), marker, DefaultStyle(), discardLogger)
		got := m.CollectRectangles(blank(200, 200))
		want := []geometry.Rect{{X: 90, Y: 80, W: 20, H: 40}, {X: 0, Y: -10, W: 20, H: 40}}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("marker=%v expected %v, got %v", marker, want, got)
		}
		if pts := m.Points(); len(pts) != 2 || pts[0] != image.Pt(100, 100) {
			t.Fatalf("marker=%v unexpected points %v", marker, pts)
		}
		// markers draw a cross through the center, outlines leave it empty
		if isStyleColor(m.Canvas(), 100, 100) != marker {
			t.Fatalf("marker=%v wrong drawing style at click point", marker)
		}
	}
}

func TestPaintedOutlineMode_RejectsNearRightEdge(t *testing.T) {
	const w = 100
	d := newScriptedDisplay(down(w-3, 50), move(94, 50), move(95, 50), up(50, 50))
	m := NewPaintedOutlineMode(d, image.Pt(10, 10), 1, false, DefaultStyle(), discardLogger)
	got := m.CollectRectangles(blank(w, 100))
	want := []geometry.Rect{{X: 89, Y: 45, W: 10, H: 10}, {X: 45, Y: 45, W: 10, H: 10}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rect %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPaintedOutlineMode_IgnoresMovesWhenIdle(t *testing.T) {
	d := newScriptedDisplay(move(50, 50), up(50, 50), down(20, 20), up(30, 20), move(40, 40))
	m := NewPaintedOutlineMode(d, image.Pt(10, 10), 1, true, DefaultStyle(), discardLogger)
	got := m.CollectRectangles(blank(100, 100))
	if len(got) != 2 {
		t.Fatalf("expected down and up positions only, got %v", got)
	}
	if m.State() != DragIdle {
		t.Fatalf("expected idle, got %v", m.State())
	}
}

func TestPaintedOutlineMode_RescalesBack(t *testing.T) {
	d := newScriptedDisplay(down(40, 40), up(40, 40))
	m := NewPaintedOutlineMode(d, image.Pt(10, 10), 2, false, DefaultStyle(), discardLogger)
	if m.BoxSize() != image.Pt(20, 20) {
		t.Fatalf("expected canvas box 20x20, got %v", m.BoxSize())
	}
	got := m.CollectRectangles(blank(50, 50))
	if m.Canvas().Bounds().Dx() != 100 {
		t.Fatalf("expected rescaled canvas, got %v", m.Canvas().Bounds())
	}
	if len(got) != 2 || got[0] != (geometry.Rect{X: 15, Y: 15, W: 10, H: 10}) {
		t.Fatalf("expected original-space rectangles, got %v", got)
	}
}

func TestModes_NilDisplay(t *testing.T) {
	m := NewSingleDragMode(nil, DefaultStyle(), nil)
	if got := m.CollectRectangles(blank(10, 10)); got != nil {
		t.Fatalf("expected nil without display, got %v", got)
	}
	var nilMode *TwoClickMode
	nilMode.HandlePointer(PointerEvent{Kind: PointerUp, Button: ButtonPrimary})
	if nilMode.State() != AwaitingFirstClick {
		t.Fatalf("nil mode should report its zero state")
	}
}
