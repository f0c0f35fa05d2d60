package models

import (
	"github.com/shopspring/decimal"
)

// Variance is the price movement of a fuel type over a period.
type Variance struct {
	FuelType string          `json:"fuel_type"`
	Period   Period          `json:"period"`
	Price    decimal.Decimal `json:"price"`
}

// AveragePrice is the average price of a fuel type for the period that
// started at Captured.
type AveragePrice struct {
	FuelType string          `json:"fuel_type"`
	Period   Period          `json:"period"`
	Price    decimal.Decimal `json:"price"`
	Captured Captured        `json:"captured"`
}

// The trends endpoint uses PascalCase keys.
type wireTrend struct {
	Code     *string          `json:"Code"`
	Period   *string          `json:"Period"`
	Price    *decimal.Decimal `json:"Price"`
	Captured *string          `json:"Captured"`
}

func decodeTrend(entity string, data []byte) (wireTrend, Period, error) {
	var w wireTrend
	if err := json.Unmarshal(data, &w); err != nil {
		return w, "", decodeFailure(err, "%s", entity)
	}

	switch {
	case w.Code == nil:
		return w, "", missingField(entity, "Code")
	case w.Period == nil:
		return w, "", missingField(entity, "Period")
	case w.Price == nil:
		return w, "", missingField(entity, "Price")
	}

	period, err := ParsePeriod(*w.Period)
	if err != nil {
		return w, "", decodeFailure(err, "%s", entity)
	}
	return w, period, nil
}

// DecodeVariance builds a Variance from one element of the Variances collection.
func DecodeVariance(data []byte) (Variance, error) {
	w, period, err := decodeTrend("variance", data)
	if err != nil {
		return Variance{}, err
	}

	return Variance{
		FuelType: *w.Code,
		Period:   period,
		Price:    *w.Price,
	}, nil
}

// DecodeAveragePrice builds an AveragePrice from one element of the
// AveragePrices collection.
func DecodeAveragePrice(data []byte) (AveragePrice, error) {
	w, period, err := decodeTrend("average price", data)
	if err != nil {
		return AveragePrice{}, err
	}
	if w.Captured == nil {
		return AveragePrice{}, missingField("average price", "Captured")
	}

	captured, err := DecodeCaptured(period, *w.Captured)
	if err != nil {
		return AveragePrice{}, err
	}

	return AveragePrice{
		FuelType: *w.Code,
		Period:   period,
		Price:    *w.Price,
		Captured: captured,
	}, nil
}
