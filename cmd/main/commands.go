package main

import (
	"context"

	"storefront/scraper/internal/config"
	"storefront/scraper/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "scraper exports BigBasket products and Grab restaurants to CSV.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var bigBasketCmd = &cobra.Command{
	Use:   "bigbasket",
	Short: "Scrapes the first BigBasket categories into the products CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, app *container.Container) error {
			return app.RunBigBasket(ctx)
		})
	},
}

var grabLocation string

var grabCmd = &cobra.Command{
	Use:   "grab [--location <address>]",
	Short: "Scrapes Grab restaurants around a location into the restaurants CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, app *container.Container) error {
			return app.RunGrab(ctx, grabLocation)
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Runs both pipelines concurrently.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, app *container.Container) error {
			return app.RunAll(ctx)
		})
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <pipeline> <run-id>",
	Short: "Rebuilds a CSV from the responses archived by an earlier run.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, app *container.Container) error {
			return app.Replay(ctx, args[0], args[1])
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default ./config.yaml)")
	grabCmd.Flags().StringVar(&grabLocation, "location", "", "Delivery address to search around (default grab.location)")

	rootCmd.AddCommand(bigBasketCmd, grabCmd, allCmd, replayCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func withContainer(ctx context.Context, run func(context.Context, *container.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("Configuration loaded successfully")

	app, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := run(ctx, app); err != nil {
		return err
	}

	log.Info("Application finished successfully")
	return nil
}
