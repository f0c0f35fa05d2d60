package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/nsw-fuel-check/internal/models"
)

// Derive summarises the latest price of each fuel type across results.
// Prices are grouped into buckets of bucketSize cents for the distribution.
func Derive(results []models.SearchResult, bucketSize int) *models.SearchStatistics {
	if bucketSize <= 0 {
		bucketSize = 3
	}
	stats := &models.SearchStatistics{
		CheapestStations:  make(map[string][]int),
		LowestPrice:       make(map[string]float64),
		AveragePrice:      make(map[string]float64),
		HighestPrice:      make(map[string]float64),
		PriceDistribution: make(map[string]map[string]int),
		StandardDeviation: make(map[string]float64),
		BrandDistribution: make(map[string]int),
	}

	// Group prices by fuel type
	fuelTypePrices := make(map[string][]decimal.Decimal)
	fuelTypeStations := make(map[string]map[string][]int) // price -> station codes

	for _, result := range results {
		for fuelType, priceInfos := range result.FuelPrices {
			if len(priceInfos) == 0 {
				continue
			}

			// Use the most recent price (first in slice)
			price := priceInfos[0].Price
			fuelTypePrices[fuelType] = append(fuelTypePrices[fuelType], price)

			if fuelTypeStations[fuelType] == nil {
				fuelTypeStations[fuelType] = make(map[string][]int)
			}
			key := price.String()
			fuelTypeStations[fuelType][key] = append(fuelTypeStations[fuelType][key], result.Code)
		}
	}

	for fuelType, prices := range fuelTypePrices {
		lowestPrice := decimal.Min(prices[0], prices[1:]...)
		highestPrice := decimal.Max(prices[0], prices[1:]...)
		avgPrice := decimal.Avg(prices[0], prices[1:]...)

		stats.LowestPrice[fuelType] = lowestPrice.InexactFloat64()
		stats.HighestPrice[fuelType] = highestPrice.InexactFloat64()
		stats.AveragePrice[fuelType] = avgPrice.Round(1).InexactFloat64()

		cheapest := slices.Clone(fuelTypeStations[fuelType][lowestPrice.String()])
		slices.Sort(cheapest)
		stats.CheapestStations[fuelType] = cheapest

		// Standard deviation
		if len(prices) > 1 {
			mean := avgPrice.InexactFloat64()
			variance := 0.0
			for _, p := range prices {
				variance += math.Pow(p.InexactFloat64()-mean, 2)
			}
			variance /= float64(len(prices))
			stats.StandardDeviation[fuelType] = math.Sqrt(variance)
		}

		stats.PriceDistribution[fuelType] = make(map[string]int)
		for _, p := range prices {
			price := int(p.IntPart())
			bucketStart := (price / bucketSize) * bucketSize
			bucketEnd := bucketStart + bucketSize - 1
			bucketKey := fmt.Sprintf("%d-%d", bucketStart, bucketEnd)
			stats.PriceDistribution[fuelType][bucketKey]++
		}
	}

	// Brand distribution - count results by brand
	for _, result := range results {
		if result.Brand != "" {
			stats.BrandDistribution[result.Brand]++
		}
	}

	return stats
}
