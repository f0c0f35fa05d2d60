package cmd

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/rm-hull/nsw-fuel-check/internal/config"
	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func StationPrices(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer, stationCode int) error {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	prices, err := client.GetFuelPricesForStation(ctx, stationCode)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch prices for station %d", stationCode)
	}
	return printJSON(out, prices)
}

func Nearby(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer, req models.NearbyRequest) error {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	results, err := client.GetFuelPricesWithinRadius(ctx, req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch nearby prices")
	}
	return printJSON(out, results)
}

func Trends(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer, req models.TrendsRequest) error {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	trends, err := client.GetFuelPriceTrends(ctx, req)
	if err != nil {
		return errors.Wrap(err, "failed to fetch price trends")
	}
	return printJSON(out, trends)
}

func ReferenceData(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer, modifiedSince *time.Time) error {
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	resp, err := client.GetReferenceData(ctx, modifiedSince)
	if err != nil {
		return errors.Wrap(err, "failed to fetch reference data")
	}
	return printJSON(out, resp)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
