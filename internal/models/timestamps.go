package models

import (
	"time"
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
)

// NSWLocation is the zone the upstream API reports wall-clock times in.
var NSWLocation = mustLoadLocation("Australia/Sydney")

// Order matters: the first layout that parses wins.
var lastUpdatedLayouts = []string{
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

const (
	capturedDayLayout  = "2006-01-02"
	capturedYearLayout = "January 2006"

	// RequestTimestampLayout is used for the requesttimestamp and
	// if-modified-since request headers.
	RequestTimestampLayout = "02/01/2006 15:04:05"
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// DecodeTimestamp parses the lastupdated field. Different endpoints use
// different layouts for it, so each is tried in turn; the second return is
// false when none match.
func DecodeTimestamp(raw string) (time.Time, bool) {
	for _, layout := range lastUpdatedLayouts {
		if t, err := time.ParseInLocation(layout, raw, NSWLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Captured is the capture date of an average price. Raw is only set when the
// period has no known date layout, in which case Time is zero.
type Captured struct {
	Time time.Time
	Raw  string
}

// IsRaw reports whether the value was passed through unparsed.
func (c Captured) IsRaw() bool {
	return c.Time.IsZero() && c.Raw != ""
}

func (c Captured) MarshalJSON() ([]byte, error) {
	if c.IsRaw() {
		return json.Marshal(c.Raw)
	}
	return json.Marshal(c.Time.Format(capturedDayLayout))
}

// DecodeCaptured parses the Captured field of an average price, whose layout
// depends on the sibling period.
func DecodeCaptured(period Period, raw string) (Captured, error) {
	var layout string
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth:
		layout = capturedDayLayout
	case PeriodYear:
		layout = capturedYearLayout
	default:
		return Captured{Raw: raw}, nil
	}

	t, err := time.ParseInLocation(layout, raw, NSWLocation)
	if err != nil {
		return Captured{}, decodeFailure(errors.WithStack(err), "captured %q for period %s", raw, period)
	}
	return Captured{Time: t}, nil
}
