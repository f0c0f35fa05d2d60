package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/rm-hull/nsw-fuel-check/internal"
	"github.com/rm-hull/nsw-fuel-check/internal/config"
)

func Import(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	client, repo, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close repository")
		}
	}()

	referenceData, err := client.GetReferenceData(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to fetch reference data")
	}
	numStations, err := repo.InsertStations(referenceData.Stations)
	if err != nil {
		return errors.Wrap(err, "failed to insert stations")
	}
	logger.Info().Int("stations", numStations).Msg("imported stations from reference data")

	numStations, numPrices, err := internal.ImportFuelPrices(ctx, client, repo)
	if err != nil {
		return err
	}
	logger.Info().Int("stations", numStations).Int("prices", numPrices).Msg("imported fuel prices")

	return nil
}
