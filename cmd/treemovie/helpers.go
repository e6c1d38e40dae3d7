package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phylomovies/treemovie"
	"github.com/phylomovies/treemovie/internal/config"
)

// loadController reads a movie dataset and builds a controller configured
// per cfg.
func loadController(path string, cfg *config.Config, log *slog.Logger) (*treemovie.Controller, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading movie %s: %w", path, err)
	}

	ctrl := treemovie.NewController()
	ctrl.SetLayoutOptions(treemovie.LayoutOptions{
		Radius:           cfg.Radius,
		ExtensionPadding: cfg.ExtensionPadding,
		LabelPadding:     cfg.LabelPadding,
		UseDepth:         cfg.UseDepth,
	})
	ctrl.SetStyle(treemovie.RenderStyle{
		StrokeWidth:   cfg.StrokeWidth,
		NodeDotRadius: cfg.NodeDotRadius,
		FontSize:      cfg.FontSize,
	})
	ctrl.SetSpeed(cfg.Speed)
	ctrl.SetTransitionDuration(cfg.Transition)
	ctrl.SetPauseDuration(cfg.Pause)
	ctrl.SetDiagnostics(func(err error) {
		log.Warn("animation", "err", err)
	})

	if err := ctrl.Load(data); err != nil {
		return nil, fmt.Errorf("loading movie %s: %w", path, err)
	}

	ctrl.Colors().SetMonophylyEnabled(cfg.Monophyly)
	ctrl.Colors().SetIntensity(cfg.Intensity)

	log.Debug("movie loaded",
		"frames", ctrl.Movie().NumFrames(),
		"anchors", ctrl.Movie().NumAnchors(),
		"leaves", len(ctrl.Movie().SortedLeaves))

	return ctrl, nil
}

// loadConfig reads the config file named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgFile, err)
	}
	return cfg, nil
}
