package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rm-hull/nsw-fuel-check/cmd"
	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

var cfg *config.Config

func main() {
	envErr := godotenv.Load()

	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:   "nsw-fuel-check",
		Short: "NSW FuelCheck client, price archive and HTTP API",
		Long: `Queries the NSW FuelCheck API for live fuel prices, archives them hourly
in a sqlite database, and serves both over an HTTP API.`,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			log.Logger = setupLogger()
			if envErr != nil {
				log.Debug().Msg("No .env file found")
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "FuelCheck API base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.AuthURL, "auth-url", cfg.AuthURL, "OAuth client credentials token URL")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Timeout for each FuelCheck API request")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")

	rootCmd.AddCommand(apiServerCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(stationCmd())
	rootCmd.AddCommand(nearbyCmd())
	rootCmd.AddCommand(trendsCmd())
	rootCmd.AddCommand(referenceDataCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() zerolog.Logger {
	var logger zerolog.Logger

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Logger()
	}

	return logger
}

func apiServerCmd() *cobra.Command {
	var debug bool

	c := &cobra.Command{
		Use:   "api-server",
		Short: "Start the HTTP API server, archiving prices in the background",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ApiServer(c.Context(), cfg, log.Logger, debug)
		},
	}

	c.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to sqlite database file")
	c.Flags().IntVar(&cfg.Port, "port", cfg.Port, "Port to run HTTP server on")
	c.Flags().BoolVar(&debug, "debug", false, "Enable pprof endpoints")

	return c
}

func importCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import",
		Short: "Import stations and current fuel prices into the archive",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Import(c.Context(), cfg, log.Logger)
		},
	}

	c.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to sqlite database file")

	return c
}

func stationCmd() *cobra.Command {
	var code int

	c := &cobra.Command{
		Use:   "station",
		Short: "Print the current prices at a service station",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.StationPrices(c.Context(), cfg, log.Logger, c.OutOrStdout(), code)
		},
	}

	c.Flags().IntVar(&code, "code", 0, "Service station code (required)")
	_ = c.MarkFlagRequired("code")

	return c
}

func nearbyCmd() *cobra.Command {
	var req models.NearbyRequest
	var ascending bool

	c := &cobra.Command{
		Use:   "nearby",
		Short: "Print the prices of a fuel type within a radius of a location",
		RunE: func(c *cobra.Command, args []string) error {
			if c.Flags().Changed("ascending") {
				req.SortAscending = &ascending
			}
			return cmd.Nearby(c.Context(), cfg, log.Logger, c.OutOrStdout(), req)
		},
	}

	c.Flags().Float64Var(&req.Latitude, "lat", 0, "Latitude (required)")
	c.Flags().Float64Var(&req.Longitude, "lng", 0, "Longitude (required)")
	c.Flags().IntVar(&req.Radius, "radius", 5, "Search radius in kilometres")
	c.Flags().StringVar(&req.FuelType, "fuel-type", "E10", "Fuel type code")
	c.Flags().StringSliceVar(&req.Brands, "brand", nil, "Only include these brands")
	c.Flags().StringVar(&req.SortBy, "sort-by", "", "Sort field code")
	c.Flags().BoolVar(&ascending, "ascending", true, "Sort ascending")
	_ = c.MarkFlagRequired("lat")
	_ = c.MarkFlagRequired("lng")

	return c
}

func trendsCmd() *cobra.Command {
	var req models.TrendsRequest
	var fuelTypes string

	c := &cobra.Command{
		Use:   "trends",
		Short: "Print price trends for fuel types around a location",
		RunE: func(c *cobra.Command, args []string) error {
			for _, fuelType := range strings.Split(fuelTypes, ",") {
				if fuelType = strings.TrimSpace(fuelType); fuelType != "" {
					req.FuelTypes = append(req.FuelTypes, fuelType)
				}
			}
			return cmd.Trends(c.Context(), cfg, log.Logger, c.OutOrStdout(), req)
		},
	}

	c.Flags().Float64Var(&req.Latitude, "lat", 0, "Latitude (required)")
	c.Flags().Float64Var(&req.Longitude, "lng", 0, "Longitude (required)")
	c.Flags().StringVar(&fuelTypes, "fuel-types", "E10,U91", "Comma-separated fuel type codes")
	_ = c.MarkFlagRequired("lat")
	_ = c.MarkFlagRequired("lng")

	return c
}

func referenceDataCmd() *cobra.Command {
	var since string

	c := &cobra.Command{
		Use:   "reference-data",
		Short: "Print stations, brands, fuel types, trend periods and sort fields",
		RunE: func(c *cobra.Command, args []string) error {
			var modifiedSince *time.Time
			if since != "" {
				t, err := time.ParseInLocation(time.DateOnly, since, models.NSWLocation)
				if err != nil {
					return errors.Wrap(err, "parsing --since date")
				}
				modifiedSince = &t
			}
			return cmd.ReferenceData(c.Context(), cfg, log.Logger, c.OutOrStdout(), modifiedSince)
		},
	}

	c.Flags().StringVar(&since, "since", "", "Only return data modified since this date (YYYY-MM-DD)")

	return c
}
