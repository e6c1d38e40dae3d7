package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phylomovies/treemovie/internal/viewer"
)

func newViewCommand() *cobra.Command {
	var screenshotDir string

	cmd := &cobra.Command{
		Use:   "view <movie.json>",
		Short: "Open an interactive viewer window",
		Long: `View opens a window playing the tree movie. Space toggles playback,
arrow keys step between full trees, drag pans, the mouse wheel zooms, and
clicking or dragging the timeline bar seeks and scrubs. S saves a screenshot,
F toggles the FPS overlay, Home recenters the camera.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger()

			ctrl, err := loadController(args[0], cfg, log)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			v := viewer.New(viewer.Options{
				Width:         cfg.Width,
				Height:        cfg.Height,
				Title:         "treemovie - " + filepath.Base(args[0]),
				ScreenshotDir: screenshotDir,
			}, ctrl, log)
			return v.Run()
		},
	}

	cmd.Flags().StringVar(&screenshotDir, "screenshot-dir", "screenshots", "directory for saved screenshots")
	return cmd
}
