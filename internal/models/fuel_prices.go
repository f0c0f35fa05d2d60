package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Station is a service station. Code is the key prices refer to.
type Station struct {
	ID       *string   `json:"station_id,omitempty"`
	BrandID  *string   `json:"brand_id,omitempty"`
	Brand    string    `json:"brand"`
	Code     int       `json:"code"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Location *Location `json:"location,omitempty"`
}

// Price is a single fuel price, in PriceUnit when given (cents per litre otherwise).
type Price struct {
	FuelType    string          `json:"fuel_type"`
	Price       decimal.Decimal `json:"price"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
	PriceUnit   *string         `json:"price_unit,omitempty"`
	StationCode *int            `json:"station_code,omitempty"`
}

type wireLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type wireStation struct {
	StationID *string       `json:"stationid"`
	BrandID   *string       `json:"brandid"`
	Brand     *string       `json:"brand"`
	Code      *int          `json:"code"`
	Name      *string       `json:"name"`
	Address   *string       `json:"address"`
	Location  *wireLocation `json:"location"`
}

type wirePrice struct {
	FuelType    *string          `json:"fueltype"`
	Price       *decimal.Decimal `json:"price"`
	LastUpdated *string          `json:"lastupdated"`
	PriceUnit   *string          `json:"priceunit"`
	StationCode *int             `json:"stationcode"`
}

// DecodeStation builds a Station from one element of a stations collection.
func DecodeStation(data []byte) (Station, error) {
	var w wireStation
	if err := json.Unmarshal(data, &w); err != nil {
		return Station{}, decodeFailure(err, "station")
	}

	switch {
	case w.Brand == nil:
		return Station{}, missingField("station", "brand")
	case w.Code == nil:
		return Station{}, missingField("station", "code")
	case w.Name == nil:
		return Station{}, missingField("station", "name")
	case w.Address == nil:
		return Station{}, missingField("station", "address")
	}

	station := Station{
		ID:      w.StationID,
		BrandID: w.BrandID,
		Brand:   *w.Brand,
		Code:    *w.Code,
		Name:    *w.Name,
		Address: *w.Address,
	}

	// Some endpoints send an empty location object
	if w.Location != nil && w.Location.Latitude != nil && w.Location.Longitude != nil {
		station.Location = &Location{
			Latitude:  *w.Location.Latitude,
			Longitude: *w.Location.Longitude,
		}
	}

	return station, nil
}

// DecodePrice builds a Price from one element of a prices collection. An
// unparseable lastupdated leaves LastUpdated nil rather than failing.
func DecodePrice(data []byte) (Price, error) {
	var w wirePrice
	if err := json.Unmarshal(data, &w); err != nil {
		return Price{}, decodeFailure(err, "price")
	}

	switch {
	case w.FuelType == nil:
		return Price{}, missingField("price", "fueltype")
	case w.Price == nil:
		return Price{}, missingField("price", "price")
	}

	price := Price{
		FuelType:    *w.FuelType,
		Price:       *w.Price,
		PriceUnit:   w.PriceUnit,
		StationCode: w.StationCode,
	}

	if w.LastUpdated != nil {
		if t, ok := DecodeTimestamp(*w.LastUpdated); ok {
			price.LastUpdated = &t
		}
	}

	return price, nil
}
