package annotate

import (
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

// DeleteToggle is the name of the add/delete toggle registered by the editor.
const DeleteToggle = "Delete mode"

// Editor adds, moves and deletes rectangles on one image.
//
// Add mode: two primary clicks add a rectangle (click pair semantics); a
// secondary drag picks up the rectangle nearest to the press point and drops it
// centered on the release point.
// Delete mode: a secondary press deletes the nearest rectangle; a primary drag
// deletes every rectangle whose center falls inside the dragged box.
type Editor struct {
	pass
	pristine *image.NRGBA
	clicks   twoClick
	mode     EditMode
	state    DragState
	start    image.Point
	moving   geometry.Rect
	// movingFrom is the index the moving rectangle was taken from.
	movingFrom int
}

var _ Mode = (*Editor)(nil)

func NewEditor(d Display, pair geometry.ClickPair, ratio geometry.AspectRatio, style Style, logger *slog.Logger) (*Editor, error) {
	clicks, err := newTwoClick(pair, ratio)
	if err != nil {
		return nil, err
	}
	return &Editor{pass: newPass(d, style, logger), clicks: clicks}, nil
}

// Mode returns the current edit mode.
func (e *Editor) Mode() EditMode {
	if e == nil {
		return EditAdd
	}
	return e.mode
}

func (e *Editor) State() DragState {
	if e == nil {
		return DragIdle
	}
	return e.state
}

// SetEditMode switches between add and delete. A gesture in progress is abandoned:
// a rectangle being moved returns to where it was and a pending first click is
// forgotten.
func (e *Editor) SetEditMode(m EditMode) {
	if e == nil || m == e.mode {
		return
	}
	if e.state == Dragging && e.mode == EditAdd && e.canvas != nil {
		e.rects = insertAt(e.rects, e.movingFrom, e.moving)
		e.redraw()
	}
	e.state = DragIdle
	e.clicks.reset()
	e.mode = m
	e.debug("edit mode changed", "mode", m.String())
}

// CollectRectangles edits img starting from no rectangles.
func (e *Editor) CollectRectangles(img image.Image) []geometry.Rect {
	return e.Edit(img, nil)
}

// Edit runs one interactive pass over img starting from existing and returns
// the final collection.
func (e *Editor) Edit(img image.Image, existing []geometry.Rect) []geometry.Rect {
	if e == nil || e.display == nil || img == nil {
		return append([]geometry.Rect(nil), existing...)
	}
	e.pristine = images.Clone(img)
	e.begin(images.Clone(img), existing)
	e.mode = EditAdd
	e.state = DragIdle
	e.clicks.reset()
	for _, r := range e.rects {
		e.drawRect(e.canvas, r)
	}
	e.display.AddToggle(DeleteToggle, 1, func(pos int) {
		if pos > 0 {
			e.SetEditMode(EditDelete)
			return
		}
		e.SetEditMode(EditAdd)
	})
	return e.run(e)
}

func (e *Editor) HandlePointer(ev PointerEvent) {
	if e == nil || e.canvas == nil {
		return
	}
	if e.mode == EditDelete {
		e.handleDelete(ev)
		return
	}
	e.handleAdd(ev)
}

func (e *Editor) handleAdd(ev PointerEvent) {
	p := ev.Point()
	switch {
	case ev.is(PointerUp, ButtonPrimary) && e.state == DragIdle:
		r, done := e.clicks.click(p)
		if !done {
			e.preview(func(s *image.NRGBA) { e.drawMarker(s, p) })
			return
		}
		e.commit(r)
	case ev.is(PointerDown, ButtonSecondary) && e.state == DragIdle:
		idx, err := geometry.NearestIndex(e.rects, p)
		if err != nil {
			e.debug("nothing to move")
			return
		}
		e.moving, e.movingFrom = e.rects[idx], idx
		e.rects = removeAt(e.rects, idx)
		e.state = Dragging
		e.redraw()
		e.previewMoving(p)
	case ev.Kind == PointerMove && e.state == Dragging:
		e.previewMoving(p)
	case ev.is(PointerUp, ButtonSecondary) && e.state == Dragging:
		e.state = DragIdle
		e.rects = append(e.rects, geometry.CenteredAt(p, e.moving.W, e.moving.H))
		e.redraw()
	}
}

func (e *Editor) handleDelete(ev PointerEvent) {
	p := ev.Point()
	switch {
	case ev.is(PointerDown, ButtonSecondary):
		idx, err := geometry.NearestIndex(e.rects, p)
		if err != nil {
			e.debug("nothing to delete")
			return
		}
		e.debug("rectangle deleted", "rect", e.rects[idx].String())
		e.rects = removeAt(e.rects, idx)
		e.redraw()
	case ev.is(PointerDown, ButtonPrimary) && e.state == DragIdle:
		e.start = p
		e.state = Dragging
	case ev.Kind == PointerMove && e.state == Dragging:
		box := geometry.FromCorners(e.start, p)
		e.preview(func(s *image.NRGBA) { e.drawRect(s, box) })
	case ev.is(PointerUp, ButtonPrimary) && e.state == Dragging:
		e.state = DragIdle
		before := len(e.rects)
		e.rects = geometry.RemoveCentersIn(e.rects, geometry.FromCorners(e.start, p))
		e.debug("box delete", "removed", before-len(e.rects))
		e.redraw()
	}
}

func (e *Editor) previewMoving(p image.Point) {
	r := geometry.CenteredAt(p, e.moving.W, e.moving.H)
	e.preview(func(s *image.NRGBA) { e.drawRect(s, r) })
}

// redraw rebuilds the canvas from the pristine image and the current collection.
func (e *Editor) redraw() {
	e.canvas = images.Clone(e.pristine)
	for _, r := range e.rects {
		e.drawRect(e.canvas, r)
	}
	e.display.Show(e.canvas)
}

func removeAt(rects []geometry.Rect, i int) []geometry.Rect {
	out := make([]geometry.Rect, 0, len(rects))
	out = append(out, rects[:i]...)
	return append(out, rects[i+1:]...)
}

func insertAt(rects []geometry.Rect, i int, r geometry.Rect) []geometry.Rect {
	if i > len(rects) {
		i = len(rects)
	}
	out := make([]geometry.Rect, 0, len(rects)+1)
	out = append(out, rects[:i]...)
	out = append(out, r)
	return append(out, rects[i:]...)
}
