package main

import (
	"context"
	"fmt"
	"time"

	"hrcore/internal/database/migration"
	dbpostgres "hrcore/internal/database/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			db, err := dbpostgres.Connect(connectCtx, c.cfg.Database, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.Runner{Dir: c.cfg.App.MigrationsDir, Logger: c.log}
			if !dryRun {
				return runner.Run(ctx, db.SQLDB())
			}

			pending, err := runner.Pending(ctx, db.SQLDB())
			if err != nil {
				return err
			}
			for _, m := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "pending V%d %s\n", m.Version, m.Name)
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return cmd
}
