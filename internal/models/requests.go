package models

// NearbyRequest is the body of the nearby price search.
type NearbyRequest struct {
	FuelType      string   `json:"fueltype"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Radius        int      `json:"radius"`
	Brands        []string `json:"brand"`
	SortBy        string   `json:"sortby,omitempty"`
	SortAscending *bool    `json:"sortascending,omitempty"`
}

// Normalize returns a copy that is safe to send: the API rejects a null brand list.
func (req NearbyRequest) Normalize() NearbyRequest {
	if req.Brands == nil {
		req.Brands = []string{}
	}
	return req
}

type TrendsRequest struct {
	Latitude  float64
	Longitude float64
	FuelTypes []string
}

type trendsLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type trendsFuelType struct {
	Code string `json:"code"`
}

type trendsBody struct {
	Location  trendsLocation   `json:"location"`
	FuelTypes []trendsFuelType `json:"fueltypes"`
}

// Body shapes the request the way the trends endpoint expects it.
func (req TrendsRequest) Body() any {
	fuelTypes := make([]trendsFuelType, 0, len(req.FuelTypes))
	for _, code := range req.FuelTypes {
		fuelTypes = append(fuelTypes, trendsFuelType{Code: code})
	}
	return trendsBody{
		Location:  trendsLocation{Latitude: req.Latitude, Longitude: req.Longitude},
		FuelTypes: fuelTypes,
	}
}
