package models

// GetFuelPricesResponse holds every station and price. Prices are not joined
// to their stations; use Price.StationCode.
type GetFuelPricesResponse struct {
	Stations []Station `json:"stations"`
	Prices   []Price   `json:"prices"`
}

// StationPrice is a price joined to the station selling it.
type StationPrice struct {
	Price   Price   `json:"price"`
	Station Station `json:"station"`
}

type PriceTrends struct {
	Variances     []Variance     `json:"variances"`
	AveragePrices []AveragePrice `json:"average_prices"`
}

type GetReferenceDataResponse struct {
	Stations     []Station     `json:"stations"`
	Brands       []string      `json:"brands"`
	FuelTypes    []FuelType    `json:"fuel_types"`
	TrendPeriods []TrendPeriod `json:"trend_periods"`
	SortFields   []SortField   `json:"sort_fields"`
}
