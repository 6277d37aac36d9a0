package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auto-dns/mira-gateway/internal/app"
	"github.com/auto-dns/mira-gateway/internal/config"
	"github.com/auto-dns/mira-gateway/internal/logger"
)

type contextKey string

const configKey = contextKey("config")

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "mira",
		Short:         "Docker management gateway",
		Long:          "Mira exposes a Docker daemon's containers, images, networks and volumes over a JSON API, with a live container event stream and a template store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if err := config.InitConfig(v, configFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmd.Context().Value(configKey).(*config.Config)

			// Set up logger.
			logInstance := logger.SetupLogger(&cfg.Logging)

			// Create the application.
			application, err := app.New(cfg, logInstance)
			if err != nil {
				return fmt.Errorf("failed to create app: %w", err)
			}
			return run(cmd.Context(), application, logInstance.Info().Msgf)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "INFO", "set log level (e.g. INFO, DEBUG, WARN)")
	cmd.PersistentFlags().String("listen", ":8000", "HTTP listen address")
	_ = v.BindPFlag("log.log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("server.listen_addr", cmd.PersistentFlags().Lookup("listen"))

	return cmd
}

// run drives the application until SIGINT or SIGTERM, then releases it.
func run(parent context.Context, application application, logf func(format string, v ...interface{})) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := application.Run(ctx)
	if ctx.Err() != nil {
		logf("Stopped after shutdown signal")
	}
	closeErr := application.Close()
	if runErr != nil {
		return fmt.Errorf("app run error: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("app close error: %w", closeErr)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}
}
