package main

import (
	"log/slog"
	"os"

	"github.com/soocke/rect-annotator/app"
	"github.com/soocke/rect-annotator/config"
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		// the launcher lets the operator repair it
		logger.Warn("config problem", "path", cfgPath, "error", err)
	}

	application := app.NewApp("Rect Annotator", cfg, cfgPath, logger)
	if err := application.Start(); err != nil {
		logger.Error("annotation failed", "error", err)
		os.Exit(1)
	}
}
