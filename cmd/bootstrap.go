package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/godx"
	"github.com/rs/zerolog"

	"github.com/rm-hull/nsw-fuel-check/internal"
	"github.com/rm-hull/nsw-fuel-check/internal/config"
)

// bootstrap initialises shared resources used by both the API server and import
// commands. It returns the FuelCheck client, a repository, and an error
// if something failed during startup.
func bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (internal.FuelCheckClient, internal.FuelPricesRepository, error) {
	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	db, err := internal.Connect(cfg.DBPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize database")
	}

	if err := internal.Migrate("migrations", cfg.DBPath); err != nil {
		_ = db.Close()
		return nil, nil, errors.Wrap(err, "failed to migrate SQL")
	}

	repo := internal.NewFuelPricesRepository(db)

	return client, repo, nil
}

func newClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (internal.FuelCheckClient, error) {
	if cfg.APIKey == "" && !cfg.UseOAuth() {
		logger.Warn().Msg("no FuelCheck API key or client credentials configured")
	}

	client, err := internal.NewFuelCheckClient(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "FuelCheck authentication failed")
	}
	return client, nil
}
