package app

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/rect-annotator/config"
	"github.com/soocke/rect-annotator/domain/annotate"
	"github.com/soocke/rect-annotator/domain/dataset"
	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/domain/session"
	"github.com/soocke/rect-annotator/ui/model"
	"github.com/soocke/rect-annotator/ui/presenter"
	"github.com/soocke/rect-annotator/ui/theme"
	"github.com/soocke/rect-annotator/ui/view"
)

// AppContainer assembles the display, the active mode, the dataset I/O, the
// session and its progress presenter.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Display  *view.HighGUI
	Mode     annotate.Mode
	Source   *dataset.Source
	Sink     *dataset.Sink
	Session  *session.Session
	Progress *model.ProgressModel

	// Presenters
	ProgressPresenter *presenter.ProgressPresenter
}

// BuildContainer constructs all components. Side-effects limited to opening the
// annotation window and creating the output directory.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}
	format, err := dataset.ParseFormat(cfg.PatchFormat)
	if err != nil {
		return nil, err
	}
	c.Source = dataset.NewSource(cfg.ImageDir, logger)
	c.Sink = dataset.NewSink(cfg.OutputDir, format)
	if err := c.Sink.EnsureDir(); err != nil {
		return nil, err
	}

	c.Display = view.NewHighGUI(cfg.WindowName, logger)
	c.Mode, err = NewMode(cfg, c.Display, logger)
	if err != nil {
		_ = c.Display.Close()
		return nil, err
	}

	c.Session, err = session.New(session.Options{
		ImageDir:  cfg.ImageDir,
		OutputDir: cfg.OutputDir,
		PatchSize: image.Pt(cfg.PatchWidth, cfg.PatchHeight),
		Workers:   cfg.Workers,
	}, c.Source, c.Mode, c.Sink, logger)
	if err != nil {
		_ = c.Display.Close()
		return nil, err
	}

	c.Progress = model.NewProgressModel()
	c.ProgressPresenter = presenter.NewProgressPresenter(c.Progress, c.Display, cfg.WindowName)
	c.Session.SetObserver(c.ProgressPresenter)
	return c, nil
}

// Close releases the annotation window.
func (c *AppContainer) Close() error {
	if c == nil || c.Display == nil {
		return nil
	}
	return c.Display.Close()
}

// NewMode builds the interaction mode selected by cfg.Mode on top of d.
func NewMode(cfg *config.Config, d annotate.Display, logger *slog.Logger) (annotate.Mode, error) {
	style := annotate.Style{
		Color:      theme.AnnotationColor(cfg.AnnotationColor),
		Thickness:  cfg.Thickness,
		MarkerSize: cfg.MarkerSize,
	}
	pair, err := geometry.ParseClickPair(cfg.ClickPair)
	if err != nil {
		return nil, err
	}
	ratio := geometry.AspectRatio(cfg.AspectRatio)
	box := image.Pt(cfg.BoxWidth, cfg.BoxHeight)
	switch cfg.Mode {
	case config.ModeDrag:
		return annotate.NewSingleDragMode(d, style, logger), nil
	case config.ModeTwoClick:
		m, err := annotate.NewTwoClickMode(d, pair, ratio, style, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ModeFixed:
		return annotate.NewFixedSizeClickMode(d, box, cfg.DrawMarker, style, logger), nil
	case config.ModeOutline:
		return annotate.NewPaintedOutlineMode(d, box, cfg.OutlineScale, cfg.DrawMarker, style, logger), nil
	case config.ModeEdit:
		e, err := annotate.NewEditor(d, pair, ratio, style, logger)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}
