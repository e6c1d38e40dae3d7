package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phylomovies/treemovie/internal/server"
)

func newServeCommand() *cobra.Command {
	var (
		port     int
		allowAll bool
	)

	cmd := &cobra.Command{
		Use:   "serve <movie.json>",
		Short: "Serve movie data and rendered frames over HTTP",
		Long: `Serve exposes the movie over HTTP: /api/movie and /api/timeline return
JSON metadata, /api/frames/{index}/svg and /api/position/{pos}/svg return
rendered frames, and /ws is a WebSocket playback channel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if allowAll {
				cfg.AllowAll = true
			}
			log := newLogger()

			ctrl, err := loadController(args[0], cfg, log)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			srv := server.New(server.Config{
				Port:     cfg.Port,
				Width:    float64(cfg.Width),
				Height:   float64(cfg.Height),
				AllowAll: cfg.AllowAll,
			}, ctrl, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&allowAll, "allow-all", false, "allow all CORS origins")
	return cmd
}
