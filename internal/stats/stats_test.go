package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

func result(code int, brand string, prices map[string][]string) models.SearchResult {
	fuelPrices := make(map[string][]models.PriceInfo)
	for fuelType, values := range prices {
		for _, v := range values {
			fuelPrices[fuelType] = append(fuelPrices[fuelType], models.PriceInfo{
				Price:     decimal.RequireFromString(v),
				UpdatedOn: time.Now(),
			})
		}
	}
	return models.SearchResult{
		Station:    models.Station{Code: code, Brand: brand},
		FuelPrices: fuelPrices,
	}
}

func TestDerive(t *testing.T) {
	results := []models.SearchResult{
		result(3, "BP", map[string][]string{"E10": {"170.9", "180.9"}, "DL": {"199.9"}}),
		result(1, "Caltex", map[string][]string{"E10": {"168.9"}}),
		result(2, "BP", map[string][]string{"E10": {"168.9"}}),
	}

	stats := Derive(results, 3)

	assert.InDelta(t, 168.9, stats.LowestPrice["E10"], 1e-9)
	assert.InDelta(t, 170.9, stats.HighestPrice["E10"], 1e-9)
	assert.InDelta(t, 169.6, stats.AveragePrice["E10"], 1e-9)
	assert.Equal(t, []int{1, 2}, stats.CheapestStations["E10"])
	assert.InDelta(t, 0.9428, stats.StandardDeviation["E10"], 1e-4)
	assert.Equal(t, map[string]int{"168-170": 3}, stats.PriceDistribution["E10"])

	assert.InDelta(t, 199.9, stats.LowestPrice["DL"], 1e-9)
	assert.Equal(t, []int{3}, stats.CheapestStations["DL"])
	assert.NotContains(t, stats.StandardDeviation, "DL")

	assert.Equal(t, map[string]int{"BP": 2, "Caltex": 1}, stats.BrandDistribution)
}

func TestDeriveEmpty(t *testing.T) {
	stats := Derive(nil, 0)
	require.NotNil(t, stats)
	assert.Empty(t, stats.LowestPrice)
	assert.Empty(t, stats.BrandDistribution)
}
