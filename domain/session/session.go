package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
)

var ErrMissingTrailingSeparator = errors.New("directory path must end with a path separator")

// Collector turns one image into rectangles through operator interaction.
type Collector interface {
	CollectRectangles(img image.Image) []geometry.Rect
}

// ImageSource lists and loads the images to annotate.
type ImageSource interface {
	List() ([]string, error)
	Load(path string) (image.Image, error)
}

// PatchSink persists a cropped patch under a base name and returns its path.
type PatchSink interface {
	Save(name string, img image.Image) (string, error)
}

// Progress is a snapshot of a running session.
type Progress struct {
	ImagesDone  int
	ImagesTotal int
	Patches     int
	Skipped     int
	Current     string
}

// Observer receives progress after each image starts and finishes.
type Observer interface {
	OnProgress(p Progress)
}

// Options configures a session.
type Options struct {
	ImageDir  string
	OutputDir string
	// PatchSize resizes every patch when non-zero.
	PatchSize image.Point
	// Workers bounds concurrent patch writes for one image.
	Workers int
}

// Session walks the image source, lets the collector annotate each image and
// writes one patch per rectangle, named by a counter shared across all images.
type Session struct {
	opts      Options
	source    ImageSource
	collector Collector
	sink      PatchSink
	logger    *slog.Logger
	observer  Observer

	mu       sync.Mutex
	counter  int
	progress Progress
}

func hasTrailingSeparator(dir string) bool {
	return strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(os.PathSeparator))
}

// New validates the directory options and returns a ready session.
func New(opts Options, source ImageSource, collector Collector, sink PatchSink, logger *slog.Logger) (*Session, error) {
	if !hasTrailingSeparator(opts.ImageDir) {
		return nil, fmt.Errorf("image dir %q: %w", opts.ImageDir, ErrMissingTrailingSeparator)
	}
	if !hasTrailingSeparator(opts.OutputDir) {
		return nil, fmt.Errorf("output dir %q: %w", opts.OutputDir, ErrMissingTrailingSeparator)
	}
	if source == nil || collector == nil || sink == nil {
		return nil, errors.New("session requires a source, a collector and a sink")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Session{opts: opts, source: source, collector: collector, sink: sink, logger: logger}, nil
}

// SetObserver registers o for progress updates. Nil disables updates.
func (s *Session) SetObserver(o Observer) {
	if s == nil {
		return
	}
	s.observer = o
}

// Counter returns the number of patch names handed out so far.
func (s *Session) Counter() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Progress returns the latest progress snapshot.
func (s *Session) Progress() Progress {
	if s == nil {
		return Progress{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// PatchName formats the n-th patch name.
func PatchName(n int) string { return fmt.Sprintf("%05d", n) }

// Annotate runs the session over every listed image in source order. It returns
// early when ctx is cancelled between images or when a patch cannot be written;
// patches already written are kept.
func (s *Session) Annotate(ctx context.Context) error {
	paths, err := s.source.List()
	if err != nil {
		return err
	}
	s.update(func(p *Progress) { p.ImagesTotal = len(paths) })
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.update(func(p *Progress) { p.Current = path })
		img, err := s.source.Load(path)
		if err != nil {
			s.warn("skipping image", "path", path, "err", err)
			s.update(func(p *Progress) { p.ImagesDone++; p.Skipped++ })
			continue
		}
		s.info("annotating image", "path", path)
		rects := s.collector.CollectRectangles(img)
		written, err := s.writePatches(ctx, img, rects)
		s.update(func(p *Progress) { p.ImagesDone++; p.Patches += written })
		if err != nil {
			return fmt.Errorf("image %s: %w", path, err)
		}
		s.info("image done", "path", path, "rectangles", len(rects), "patches", written)
	}
	return nil
}

// writePatches crops and saves one patch per rectangle. Names are assigned in
// rectangle order before any write starts, so concurrency never reorders them.
func (s *Session) writePatches(ctx context.Context, img image.Image, rects []geometry.Rect) (int, error) {
	names := make([]string, len(rects))
	s.mu.Lock()
	for i := range rects {
		s.counter++
		names[i] = PatchName(s.counter)
	}
	s.mu.Unlock()

	var written int
	var wmu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, r := range rects {
		name := names[i]
		g.Go(func() error {
			patch, err := images.CropPatch(img, r.Bounds(), s.opts.PatchSize)
			if errors.Is(err, images.ErrEmptyPatch) {
				s.warn("empty patch", "name", name, "rect", r.String())
				return nil
			}
			if err != nil {
				return err
			}
			if _, err := s.sink.Save(name, patch); err != nil {
				if s.logger != nil {
					s.logger.Error("patch write failed", "name", name, "err", err)
				}
				return err
			}
			wmu.Lock()
			written++
			wmu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return written, err
}

func (s *Session) update(fn func(p *Progress)) {
	s.mu.Lock()
	fn(&s.progress)
	snap := s.progress
	s.mu.Unlock()
	if s.observer != nil {
		s.observer.OnProgress(snap)
	}
}

func (s *Session) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Session) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
