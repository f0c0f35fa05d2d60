package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceInfo struct {
	Price     decimal.Decimal `json:"price"`
	PriceUnit *string         `json:"price_unit,omitempty"`
	UpdatedOn time.Time       `json:"updated_on"`
}

type SearchResult struct {
	Station
	FuelPrices map[string][]PriceInfo `json:"fuel_prices,omitempty"`
}

type SearchStatistics struct {
	CheapestStations  map[string][]int          `json:"cheapest_stations"`
	LowestPrice       map[string]float64        `json:"lowest_price"`
	AveragePrice      map[string]float64        `json:"average_price"`
	HighestPrice      map[string]float64        `json:"highest_price"`
	StandardDeviation map[string]float64        `json:"standard_deviation"`
	PriceDistribution map[string]map[string]int `json:"price_distribution"`
	BrandDistribution map[string]int            `json:"brand_distribution"`
}

type SearchResponse struct {
	Results     []SearchResult    `json:"results"`
	Attribution []string          `json:"attribution"`
	Statistics  *SearchStatistics `json:"statistics,omitempty"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}
