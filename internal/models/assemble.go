package models

import (
	jsoniter "github.com/json-iterator/go"
)

type rawObject map[string]jsoniter.RawMessage

func decodeObject(data []byte, what string) (rawObject, error) {
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, decodeFailure(err, "%s", what)
	}
	if obj == nil {
		return nil, malformed("%s: expected an object, got null", what)
	}
	return obj, nil
}

func (obj rawObject) collection(what, key string) ([]jsoniter.RawMessage, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return nil, missingField(what, key)
	}

	var items []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, decodeFailure(err, "%s: %s", what, key)
	}
	return items, nil
}

func decodeAll[T any](items []jsoniter.RawMessage, key string, decode func([]byte) (T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := decode(item)
		if err != nil {
			return nil, decodeFailure(err, "%s[%d]", key, i)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeCollection[T any](obj rawObject, what, key string, decode func([]byte) (T, error)) ([]T, error) {
	items, err := obj.collection(what, key)
	if err != nil {
		return nil, err
	}
	return decodeAll(items, key, decode)
}

// DecodeStationPrices assembles the response of the station price lookup.
func DecodeStationPrices(data []byte) ([]Price, error) {
	obj, err := decodeObject(data, "station prices")
	if err != nil {
		return nil, err
	}
	return decodeCollection(obj, "station prices", "prices", DecodePrice)
}

// DecodeFuelPrices assembles the response of the all prices endpoint.
func DecodeFuelPrices(data []byte) (*GetFuelPricesResponse, error) {
	obj, err := decodeObject(data, "fuel prices")
	if err != nil {
		return nil, err
	}

	stations, err := decodeCollection(obj, "fuel prices", "stations", DecodeStation)
	if err != nil {
		return nil, err
	}
	prices, err := decodeCollection(obj, "fuel prices", "prices", DecodePrice)
	if err != nil {
		return nil, err
	}

	return &GetFuelPricesResponse{Stations: stations, Prices: prices}, nil
}

// DecodeNearbyPrices assembles the nearby search response, joining every price
// to its station. Every price must reference a station in the same payload.
// Stations sharing a code resolve to the last one in the payload.
func DecodeNearbyPrices(data []byte) ([]StationPrice, error) {
	obj, err := decodeObject(data, "nearby prices")
	if err != nil {
		return nil, err
	}

	stations, err := decodeCollection(obj, "nearby prices", "stations", DecodeStation)
	if err != nil {
		return nil, err
	}
	prices, err := decodeCollection(obj, "nearby prices", "prices", DecodePrice)
	if err != nil {
		return nil, err
	}

	byCode := make(map[int]Station, len(stations))
	for _, station := range stations {
		byCode[station.Code] = station
	}

	result := make([]StationPrice, 0, len(prices))
	for i, price := range prices {
		if price.StationCode == nil {
			return nil, malformed("prices[%d]: missing required field \"stationcode\"", i)
		}
		station, ok := byCode[*price.StationCode]
		if !ok {
			return nil, malformed("prices[%d]: no station with code %d", i, *price.StationCode)
		}
		result = append(result, StationPrice{Price: price, Station: station})
	}

	return result, nil
}

// DecodePriceTrends assembles the price trends response.
func DecodePriceTrends(data []byte) (*PriceTrends, error) {
	obj, err := decodeObject(data, "price trends")
	if err != nil {
		return nil, err
	}

	variances, err := decodeCollection(obj, "price trends", "Variances", DecodeVariance)
	if err != nil {
		return nil, err
	}
	averages, err := decodeCollection(obj, "price trends", "AveragePrices", DecodeAveragePrice)
	if err != nil {
		return nil, err
	}

	return &PriceTrends{Variances: variances, AveragePrices: averages}, nil
}

type envelope struct {
	Items *[]jsoniter.RawMessage `json:"items"`
}

func decodeEnvelope[T any](obj rawObject, key string, decode func([]byte) (T, error)) ([]T, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return nil, missingField("reference data", key)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, decodeFailure(err, "reference data: %s", key)
	}
	if env.Items == nil {
		return nil, missingField(key, "items")
	}

	return decodeAll(*env.Items, key+".items", decode)
}

// DecodeReferenceData assembles the reference data response, unwrapping the
// items envelope around each collection.
func DecodeReferenceData(data []byte) (*GetReferenceDataResponse, error) {
	obj, err := decodeObject(data, "reference data")
	if err != nil {
		return nil, err
	}

	var resp GetReferenceDataResponse
	if resp.Stations, err = decodeEnvelope(obj, "stations", DecodeStation); err != nil {
		return nil, err
	}
	if resp.Brands, err = decodeEnvelope(obj, "brands", decodeBrand); err != nil {
		return nil, err
	}
	if resp.FuelTypes, err = decodeEnvelope(obj, "fueltypes", DecodeFuelType); err != nil {
		return nil, err
	}
	if resp.TrendPeriods, err = decodeEnvelope(obj, "trendperiods", DecodeTrendPeriod); err != nil {
		return nil, err
	}
	if resp.SortFields, err = decodeEnvelope(obj, "sortfields", DecodeSortField); err != nil {
		return nil, err
	}

	return &resp, nil
}
