package internal

import (
	"database/sql"
	_ "embed"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

//go:embed sql/insert_station.sql
var insertStationSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/search_stations.sql
var searchStationsSQL string

//go:embed sql/search_prices.sql
var searchPricesSQL string

type FuelPricesRepository interface {
	InsertStations(batch []models.Station) (int, error)
	InsertPrices(batch []models.Price) (int, error)
	Search(boundingBox []float64, perTypeLimit int) ([]models.SearchResult, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewFuelPricesRepository(db *sql.DB) FuelPricesRepository {
	return &sqliteRepository{
		db:  db,
		now: time.Now,
	}
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

// InsertStations upserts stations by code, returning the number written.
// A station without a location keeps any location stored previously.
func (repo *sqliteRepository) InsertStations(batch []models.Station) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	updatedAt := repo.now().UTC()
	count, err := repo.execBatch(insertStationSQL, len(batch), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		station := batch[i]
		var lat, lng *float64
		if station.Location != nil {
			lat = &station.Location.Latitude
			lng = &station.Location.Longitude
		}
		return stmt.Exec(
			station.Code, station.ID, station.BrandID, station.Brand,
			station.Name, station.Address, lat, lng, updatedAt,
		)
	})
	if err != nil {
		return 0, err
	}

	recordArchived("stations", count)
	return count, nil
}

// InsertPrices archives prices, returning the number of new rows. Prices
// without a station code are skipped; those without a timestamp are stamped
// with the current time. Prices already archived are ignored.
func (repo *sqliteRepository) InsertPrices(batch []models.Price) (int, error) {
	prices := make([]models.Price, 0, len(batch))
	for _, price := range batch {
		if price.StationCode == nil {
			log.Debug().Str("fuelType", price.FuelType).Msg("skipping price without a station code")
			continue
		}
		prices = append(prices, price)
	}
	if len(prices) == 0 {
		return 0, nil
	}

	insertedAt := repo.now().UTC()
	count, err := repo.execBatch(insertPriceSQL, len(prices), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		price := prices[i]
		lastUpdated := insertedAt
		if price.LastUpdated != nil {
			lastUpdated = price.LastUpdated.UTC()
		}
		return stmt.Exec(*price.StationCode, price.FuelType, lastUpdated, price.Price, price.PriceUnit)
	})
	if err != nil {
		return 0, err
	}

	recordArchived("prices", count)
	return count, nil
}

func (repo *sqliteRepository) execBatch(query string, n int, exec func(stmt *sql.Stmt, i int) (sql.Result, error)) (int, error) {
	tx, err := repo.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("error rolling back transaction")
			}
		}
	}()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare statement")
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close statement")
		}
	}()

	count := 0
	for i := range n {
		var result sql.Result
		result, err = exec(stmt, i)
		if err != nil {
			return 0, errors.Wrap(err, "failed to execute individual insert")
		}
		var affected int64
		affected, err = result.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "failed to count affected rows")
		}
		count += int(affected)
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	return count, nil
}

// Search returns the stations inside boundingBox ([minLng, minLat, maxLng,
// maxLat]) ordered by code. Each station carries up to perTypeLimit prices per
// fuel type, newest first, where a run of the same price is reported once
// with the time it first took effect.
func (repo *sqliteRepository) Search(boundingBox []float64, perTypeLimit int) ([]models.SearchResult, error) {
	if len(boundingBox) != 4 {
		return nil, errors.Newf("bounding box must have 4 values, got %d", len(boundingBox))
	}
	args := []any{boundingBox[1], boundingBox[3], boundingBox[0], boundingBox[2]}

	results, index, err := repo.searchStations(args)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || perTypeLimit <= 0 {
		return results, nil
	}

	if err := repo.searchPrices(args, perTypeLimit, func(code int, fuelType string, history []models.PriceInfo) {
		result := &results[index[code]]
		if result.FuelPrices == nil {
			result.FuelPrices = make(map[string][]models.PriceInfo)
		}
		result.FuelPrices[fuelType] = history
	}); err != nil {
		return nil, err
	}

	return results, nil
}

func (repo *sqliteRepository) searchStations(args []any) ([]models.SearchResult, map[int]int, error) {
	rows, err := repo.db.Query(searchStationsSQL, args...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to execute station search query")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rows")
		}
	}()

	results := make([]models.SearchResult, 0)
	index := make(map[int]int)
	for rows.Next() {
		var result models.SearchResult
		var stationID, brandID sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(
			&result.Code, &stationID, &brandID, &result.Brand,
			&result.Name, &result.Address, &lat, &lng,
		); err != nil {
			return nil, nil, errors.Wrap(err, "failed to scan station row")
		}
		if stationID.Valid {
			result.ID = &stationID.String
		}
		if brandID.Valid {
			result.BrandID = &brandID.String
		}
		if lat.Valid && lng.Valid {
			result.Location = &models.Location{Latitude: lat.Float64, Longitude: lng.Float64}
		}
		index[result.Code] = len(results)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "error iterating over station rows")
	}
	return results, index, nil
}

type priceHistory struct {
	stationCode int
	fuelType    string
	entries     []models.PriceInfo
	full        bool
}

// add expects entries newest first.
func (h *priceHistory) add(info models.PriceInfo, limit int) {
	if h.full {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Price.Equal(info.Price) {
		h.entries[n-1].UpdatedOn = info.UpdatedOn
		return
	}
	if len(h.entries) >= limit {
		h.full = true
		return
	}
	h.entries = append(h.entries, info)
}

func (repo *sqliteRepository) searchPrices(args []any, perTypeLimit int, emit func(code int, fuelType string, history []models.PriceInfo)) error {
	rows, err := repo.db.Query(searchPricesSQL, args...)
	if err != nil {
		return errors.Wrap(err, "failed to execute price search query")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rows")
		}
	}()

	var current *priceHistory
	for rows.Next() {
		var code int
		var fuelType string
		var price decimal.Decimal
		var priceUnit sql.NullString
		var updatedOn time.Time
		if err := rows.Scan(&code, &fuelType, &price, &priceUnit, &updatedOn); err != nil {
			return errors.Wrap(err, "failed to scan price row")
		}

		if current == nil || current.stationCode != code || current.fuelType != fuelType {
			if current != nil {
				emit(current.stationCode, current.fuelType, current.entries)
			}
			current = &priceHistory{stationCode: code, fuelType: fuelType}
		}

		info := models.PriceInfo{Price: price, UpdatedOn: updatedOn}
		if priceUnit.Valid {
			info.PriceUnit = &priceUnit.String
		}
		current.add(info, perTypeLimit)
	}
	if current != nil {
		emit(current.stationCode, current.fuelType, current.entries)
	}

	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "error iterating over price rows")
	}
	return nil
}
