package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"hrcore/internal/app"
	"hrcore/internal/database/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(c *cli) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, c *cli, migrate bool) error {
	addr, err := app.ListenAddr(c.cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	bootstrap, cleanup, err := app.Bootstrap(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			c.log.Warn("cleanup error", zap.Error(err))
		}
	}()

	if migrate {
		runner := migration.Runner{Dir: c.cfg.App.MigrationsDir, Logger: c.log}
		if err := runner.Run(ctx, bootstrap.Container.DB.SQLDB()); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.Info("http server listening", zap.String("addr", addr))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
