package main

import (
	"hrcore/internal/config"
	"hrcore/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "hrcore"

// cli carries what every subcommand needs once the root has loaded it.
type cli struct {
	configFile string
	debug      bool
	json       bool

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "hrcore serves the multi-tenant role, skill and soft-skill catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (env variables take precedence)")
	root.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&c.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Debug = c.debug
	}
	if cmd.Flags().Changed("json") {
		cfg.Log.JSON = c.json
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment))
	return nil
}
