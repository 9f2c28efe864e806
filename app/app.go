package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/soocke/rect-annotator/config"
	"github.com/soocke/rect-annotator/debug"
	"github.com/soocke/rect-annotator/ui/view"
)

type App struct {
	title   string
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
}

func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *App {
	return &App{title: title, cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Start shows the launcher (unless skipped) and then runs the annotation session
// until every image is handled or the operator closes the window.
func (a *App) Start() error {
	if !a.cfg.SkipLauncher {
		if !view.NewLauncher(a.cfg, a.cfgPath, a.logger).Run(a.title) {
			a.logger.Info("launcher closed without starting")
			return nil
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	c, err := BuildContainer(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	c.Display.SetOnQuit(cancel)
	if a.cfg.Debug {
		debug.StartStatsLogger(ctx, 5*time.Second, a.logger)
	}

	a.logger.Info("session started", "mode", a.cfg.Mode, "image_dir", a.cfg.ImageDir, "output_dir", a.cfg.OutputDir)
	err = c.Session.Annotate(ctx)
	progress, elapsed := c.Progress.Values()
	a.logger.Info("session finished",
		"images", progress.ImagesDone,
		"skipped", progress.Skipped,
		"patches", progress.Patches,
		"elapsed", elapsed.String())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
