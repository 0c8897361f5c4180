package main

import (
	"context"
	"time"

	dbpostgres "hrcore/internal/database/postgres"
	"hrcore/internal/database/seeder"
	"hrcore/internal/infrastructure/cache"
	"hrcore/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the shared catalog, soft skills and role requirements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			db, err := dbpostgres.Connect(connectCtx, c.cfg.Database, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.log}
			if err := runner.Run(ctx, db); err != nil {
				return err
			}

			// Cached searches may still hold the previous shared catalog.
			rdb := cache.NewRedis(c.cfg.Redis, c.log)
			defer rdb.Close()
			if err := rdb.DeleteByPattern(ctx, usecase.GlobalCachePattern()); err != nil {
				c.log.Warn("cache invalidation failed", zap.Error(err))
			}
			return nil
		},
	}
}
