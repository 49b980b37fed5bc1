package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessboard-go/internal/config"
	"github.com/lgbarn/chessboard-go/internal/httpx"
	"github.com/lgbarn/chessboard-go/internal/session"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		listen   string
		maxGames int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := config.From(a.cfg).WithListen(listen)
			if cmd.Flags().Changed("max-games") {
				b = b.WithMaxGames(maxGames)
			}
			cfg := b.Build()
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default \":8080\")")
	cmd.Flags().IntVar(&maxGames, "max-games", 0, "maximum open games (0 = unlimited)")
	return cmd
}

func (a *app) serve(ctx context.Context, cfg *config.Config) error {
	games := session.NewManager(cfg.Server.MaxGames, a.log)
	srv := httpx.NewServer(games, a.store, a.log)
	return srv.Run(ctx, cfg.Server.Listen, cfg.Server.ShutdownTimeout)
}
