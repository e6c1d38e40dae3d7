package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var (
		outDir      string
		anchorsOnly bool
		frame       int
	)

	cmd := &cobra.Command{
		Use:   "export <movie.json>",
		Short: "Render frames to SVG files",
		Long: `Export renders movie frames as standalone SVG documents. By default
every frame is written; --anchors-only limits output to the full
reconstructed trees, and --frame exports a single frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}

			movie := ctrl.Movie()
			width, height := float64(cfg.Width), float64(cfg.Height)

			writeFrame := func(i int) error {
				doc := ctrl.RenderSVG(float64(i), width, height)
				path := filepath.Join(outDir, fmt.Sprintf("frame_%04d.svg", i))
				if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				log.Debug("wrote", "path", path)
				return nil
			}

			if cmd.Flags().Changed("frame") {
				if frame < 0 || frame >= movie.NumFrames() {
					return fmt.Errorf("frame %d out of range [0, %d]", frame, movie.NumFrames()-1)
				}
				return writeFrame(frame)
			}

			count := 0
			for i := 0; i < movie.NumFrames(); i++ {
				if anchorsOnly && !movie.IsAnchorFrame(i) {
					continue
				}
				if err := writeFrame(i); err != nil {
					return err
				}
				count++
			}
			log.Info("export complete", "frames", count, "dir", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "svg", "output directory")
	cmd.Flags().BoolVar(&anchorsOnly, "anchors-only", false, "export only full reconstructed trees")
	cmd.Flags().IntVar(&frame, "frame", 0, "export a single frame index")
	return cmd
}
