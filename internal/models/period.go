package models

// Period is the aggregation window of a price trend.
type Period string

const (
	PeriodDay   Period = "Day"
	PeriodWeek  Period = "Week"
	PeriodMonth Period = "Month"
	PeriodYear  Period = "Year"
)

// ParsePeriod maps a wire token to its Period. Unknown tokens are a decode failure.
func ParsePeriod(token string) (Period, error) {
	switch p := Period(token); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", malformed("unrecognized period %q", token)
}

func (p Period) String() string {
	return string(p)
}
