package session

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/soocke/rect-annotator/domain/geometry"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeSource struct {
	paths  []string
	broken map[string]bool
}

func (f *fakeSource) List() ([]string, error) { return f.paths, nil }

func (f *fakeSource) Load(path string) (image.Image, error) {
	if f.broken[path] {
		return nil, errors.New("decode failed")
	}
	return image.NewNRGBA(image.Rect(0, 0, 100, 100)), nil
}

// scriptedCollector returns the next canned rectangle list per image.
type scriptedCollector struct {
	perImage [][]geometry.Rect
	calls    int
}

func (c *scriptedCollector) CollectRectangles(img image.Image) []geometry.Rect {
	if c.calls >= len(c.perImage) {
		c.calls++
		return nil
	}
	r := c.perImage[c.calls]
	c.calls++
	return r
}

type memSink struct {
	mu    sync.Mutex
	names []string
	sizes map[string]image.Point
	fail  string
}

func (m *memSink) Save(name string, img image.Image) (string, error) {
	if name == m.fail {
		return "", errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	if m.sizes == nil {
		m.sizes = map[string]image.Point{}
	}
	m.sizes[name] = img.Bounds().Size()
	return name + ".png", nil
}

func (m *memSink) sorted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.names...)
	sort.Strings(out)
	return out
}

type recordingObserver struct{ updates []Progress }

func (r *recordingObserver) OnProgress(p Progress) { r.updates = append(r.updates, p) }

func boxes(n int) []geometry.Rect {
	out := make([]geometry.Rect, n)
	for i := range out {
		out[i] = geometry.Rect{X: i * 10, Y: 0, W: 10, H: 10}
	}
	return out
}

var opts = Options{ImageDir: "in/", OutputDir: "out/", Workers: 4}

func TestSession_SequentialNamingAcrossImages(t *testing.T) {
	sink := &memSink{}
	col := &scriptedCollector{perImage: [][]geometry.Rect{boxes(2), boxes(3)}}
	s, err := New(opts, &fakeSource{paths: []string{"a.png", "b.png"}}, col, sink, discardLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	want := []string{"00001", "00002", "00003", "00004", "00005"}
	got := sink.sorted()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if s.Counter() != 5 {
		t.Fatalf("expected counter 5, got %d", s.Counter())
	}
}

func TestNew_RequiresTrailingSeparator(t *testing.T) {
	src, col, sink := &fakeSource{}, &scriptedCollector{}, &memSink{}
	if _, err := New(Options{ImageDir: "in", OutputDir: "out/"}, src, col, sink, nil); !errors.Is(err, ErrMissingTrailingSeparator) {
		t.Fatalf("expected ErrMissingTrailingSeparator for image dir, got %v", err)
	}
	if _, err := New(Options{ImageDir: "in/", OutputDir: "out"}, src, col, sink, nil); !errors.Is(err, ErrMissingTrailingSeparator) {
		t.Fatalf("expected ErrMissingTrailingSeparator for output dir, got %v", err)
	}
}

func TestSession_SkipsUnreadableImages(t *testing.T) {
	sink := &memSink{}
	col := &scriptedCollector{perImage: [][]geometry.Rect{boxes(1)}}
	src := &fakeSource{paths: []string{"bad.png", "good.png"}, broken: map[string]bool{"bad.png": true}}
	s, _ := New(opts, src, col, sink, discardLogger)
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if col.calls != 1 {
		t.Fatalf("collector should only see the readable image, got %d calls", col.calls)
	}
	p := s.Progress()
	if p.ImagesDone != 2 || p.Skipped != 1 || p.Patches != 1 {
		t.Fatalf("unexpected progress %+v", p)
	}
}

func TestSession_EmptyPatchConsumesName(t *testing.T) {
	sink := &memSink{}
	rects := []geometry.Rect{{X: 500, Y: 500, W: 10, H: 10}, {X: 0, Y: 0, W: 10, H: 10}}
	col := &scriptedCollector{perImage: [][]geometry.Rect{rects}}
	s, _ := New(opts, &fakeSource{paths: []string{"a.png"}}, col, sink, discardLogger)
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if got := sink.sorted(); len(got) != 1 || got[0] != "00002" {
		t.Fatalf("expected only 00002 written, got %v", got)
	}
}

func TestSession_ZeroRectanglesIsValid(t *testing.T) {
	sink := &memSink{}
	col := &scriptedCollector{perImage: [][]geometry.Rect{nil, boxes(1)}}
	s, _ := New(opts, &fakeSource{paths: []string{"a.png", "b.png"}}, col, sink, discardLogger)
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if got := sink.sorted(); len(got) != 1 || got[0] != "00001" {
		t.Fatalf("expected 00001 only, got %v", got)
	}
}

func TestSession_WriteFailureAborts(t *testing.T) {
	sink := &memSink{fail: "00002"}
	col := &scriptedCollector{perImage: [][]geometry.Rect{boxes(3), boxes(1)}}
	s, _ := New(opts, &fakeSource{paths: []string{"a.png", "b.png"}}, col, sink, discardLogger)
	if err := s.Annotate(context.Background()); err == nil {
		t.Fatalf("expected write error")
	}
	if col.calls != 1 {
		t.Fatalf("session should stop after the failing image, got %d calls", col.calls)
	}
}

func TestSession_PatchResize(t *testing.T) {
	sink := &memSink{}
	o := opts
	o.PatchSize = image.Pt(64, 128)
	col := &scriptedCollector{perImage: [][]geometry.Rect{boxes(1)}}
	s, _ := New(o, &fakeSource{paths: []string{"a.png"}}, col, sink, discardLogger)
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if sink.sizes["00001"] != image.Pt(64, 128) {
		t.Fatalf("expected resized patch, got %v", sink.sizes["00001"])
	}
}

func TestSession_ObserverAndCancel(t *testing.T) {
	obs := &recordingObserver{}
	col := &scriptedCollector{perImage: [][]geometry.Rect{boxes(1), boxes(1)}}
	s, _ := New(opts, &fakeSource{paths: []string{"a.png", "b.png"}}, col, &memSink{}, nil)
	s.SetObserver(obs)
	if err := s.Annotate(context.Background()); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	last := obs.updates[len(obs.updates)-1]
	if last.ImagesDone != 2 || last.ImagesTotal != 2 || last.Patches != 2 || last.Current != "b.png" {
		t.Fatalf("unexpected final progress %+v", last)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s2, _ := New(opts, &fakeSource{paths: []string{"a.png"}}, &scriptedCollector{}, &memSink{}, nil)
	if err := s2.Annotate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
