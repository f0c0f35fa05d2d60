package models

// FuelType is a fuel code, e.g. E10, and its display name.
type FuelType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SortField is a field the nearby search can be sorted by.
type SortField struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type TrendPeriod struct {
	Period      string `json:"period"`
	Description string `json:"description"`
}

type wireCodeName struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
}

type wireTrendPeriod struct {
	Period      *string `json:"period"`
	Description *string `json:"description"`
}

func decodeCodeName(entity string, data []byte) (string, string, error) {
	var w wireCodeName
	if err := json.Unmarshal(data, &w); err != nil {
		return "", "", decodeFailure(err, "%s", entity)
	}
	switch {
	case w.Code == nil:
		return "", "", missingField(entity, "code")
	case w.Name == nil:
		return "", "", missingField(entity, "name")
	}
	return *w.Code, *w.Name, nil
}

func DecodeFuelType(data []byte) (FuelType, error) {
	code, name, err := decodeCodeName("fuel type", data)
	if err != nil {
		return FuelType{}, err
	}
	return FuelType{Code: code, Name: name}, nil
}

func DecodeSortField(data []byte) (SortField, error) {
	code, name, err := decodeCodeName("sort field", data)
	if err != nil {
		return SortField{}, err
	}
	return SortField{Code: code, Name: name}, nil
}

func DecodeTrendPeriod(data []byte) (TrendPeriod, error) {
	var w wireTrendPeriod
	if err := json.Unmarshal(data, &w); err != nil {
		return TrendPeriod{}, decodeFailure(err, "trend period")
	}
	switch {
	case w.Period == nil:
		return TrendPeriod{}, missingField("trend period", "period")
	case w.Description == nil:
		return TrendPeriod{}, missingField("trend period", "description")
	}
	return TrendPeriod{Period: *w.Period, Description: *w.Description}, nil
}

// decodeBrand extracts the name of a brands envelope item.
func decodeBrand(data []byte) (string, error) {
	var w struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return "", decodeFailure(err, "brand")
	}
	if w.Name == nil {
		return "", missingField("brand", "name")
	}
	return *w.Name, nil
}
