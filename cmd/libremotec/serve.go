package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/pkg/config"
	"github.com/viraptor/libremotec/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dispatch server",
	Long: `Listen for a single client and execute its calls on this host.

The server accepts exactly one connection and stops listening. It exits
when the client disconnects; a transport error exits non-zero. The
metrics endpoint, when enabled, lives exactly as long as the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		err = runServe(ctx, cfg)
		if errors.Is(err, context.Canceled) {
			logger.Info("Shutdown signal received")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Server stopped")
		return nil
	},
}

// runServe binds the dispatch and metrics endpoints, then runs both until
// the session ends. Either endpoint failing to bind aborts start-up.
func runServe(ctx context.Context, cfg *config.Config) error {
	var srv *server.Server
	m := config.InitializeMetrics(cfg, func() string { return srv.State().String() })

	srv, err := config.NewServer(cfg, m.DispatchMetrics)
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()

	if m.Server != nil {
		if err := m.Server.Listen(); err != nil {
			return err
		}
	}

	session, endSession := context.WithCancel(ctx)
	defer endSession()

	g, gctx := errgroup.WithContext(session)
	g.Go(func() error {
		defer endSession()
		return srv.Serve(gctx)
	})
	if m.Server != nil {
		g.Go(func() error {
			return m.Server.Serve(gctx)
		})
	}
	return g.Wait()
}
