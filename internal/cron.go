package internal

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const CRON_SCHEDULE_STATIONS = "0 */6 * * *" // Every 6 hours
const CRON_SCHEDULE_PRICES = "10 */1 * * *"  // Every hour

const jobTimeout = 5 * time.Minute

// ImportFuelPrices archives the current price of every fuel at every station,
// returning how many stations and new prices were written.
func ImportFuelPrices(ctx context.Context, client FuelCheckClient, repo FuelPricesRepository) (int, int, error) {
	resp, err := client.GetFuelPrices(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to fetch fuel prices")
	}

	numStations, err := repo.InsertStations(resp.Stations)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to insert stations")
	}

	numPrices, err := repo.InsertPrices(resp.Prices)
	if err != nil {
		return numStations, 0, errors.Wrap(err, "failed to insert prices")
	}

	return numStations, numPrices, nil
}

// stationRefresher archives stations from the reference data, only asking
// for changes since its last successful run.
type stationRefresher struct {
	client FuelCheckClient
	repo   FuelPricesRepository

	mu            sync.Mutex
	modifiedSince *time.Time
}

func (r *stationRefresher) refresh(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	resp, err := r.client.GetReferenceData(ctx, r.modifiedSince)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch reference data")
	}

	numStations, err := r.repo.InsertStations(resp.Stations)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert stations")
	}

	r.modifiedSince = &started
	return numStations, nil
}

func StartCron(client FuelCheckClient, repo FuelPricesRepository) (*cron.Cron, error) {
	c := cron.New()
	refresher := &stationRefresher{client: client, repo: repo}

	log.Info().Msg("Starting CRON jobs to update service stations and fuel prices")

	if _, err := c.AddFunc(CRON_SCHEDULE_STATIONS, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		numStations, err := refresher.refresh(ctx)
		if err != nil {
			log.Error().Err(err).Msg("error refreshing stations")
			return
		}
		log.Info().Int("stations", numStations).Msg("refreshed stations from reference data")
	}); err != nil {
		return nil, errors.Wrap(err, "failed to schedule station refresh")
	}

	if _, err := c.AddFunc(CRON_SCHEDULE_PRICES, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		numStations, numPrices, err := ImportFuelPrices(ctx, client, repo)
		if err != nil {
			log.Error().Err(err).Msg("error importing fuel prices")
			return
		}
		log.Info().Int("stations", numStations).Int("prices", numPrices).Msg("imported fuel prices")
	}); err != nil {
		return nil, errors.Wrap(err, "failed to schedule price import")
	}

	c.Start()
	return c, nil
}
