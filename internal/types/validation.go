package types

import (
	"fmt"
	"time"
)

// Validation constraint constants.
const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0

	// MaxTripDays caps the length of a requested trip range. Forecast skill
	// is gone well before this, and the archive fan-out cost grows linearly.
	MaxTripDays = 31
)

// ValidateCoordinates checks that a lat/lon pair is on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if lat < MinLat || lat > MaxLat {
		return NewAppError(ErrCodeValidationInvalidLat,
			fmt.Sprintf("latitude %.4f outside valid range [%.0f, %.0f]", lat, MinLat, MaxLat), nil)
	}
	if lon < MinLon || lon > MaxLon {
		return NewAppError(ErrCodeValidationInvalidLon,
			fmt.Sprintf("longitude %.4f outside valid range [%.0f, %.0f]", lon, MinLon, MaxLon), nil)
	}
	return nil
}

// ParseISODate parses a single YYYY-MM-DD date into a UTC midnight.
func ParseISODate(date string) (time.Time, error) {
	d, err := time.Parse(ISODate, date)
	if err != nil {
		return time.Time{}, NewAppError(ErrCodeValidationInvalidDates,
			fmt.Sprintf("%q is not a valid YYYY-MM-DD date", date), err)
	}
	return d, nil
}

// ParseDateRange parses an inclusive ISO date range and enforces ordering
// and the maximum trip length. Returned times are UTC midnights.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(ISODate, start)
	if err != nil {
		return time.Time{}, time.Time{}, NewAppError(ErrCodeValidationInvalidDates,
			fmt.Sprintf("start date %q is not a valid YYYY-MM-DD date", start), err)
	}
	e, err := time.Parse(ISODate, end)
	if err != nil {
		return time.Time{}, time.Time{}, NewAppError(ErrCodeValidationInvalidDates,
			fmt.Sprintf("end date %q is not a valid YYYY-MM-DD date", end), err)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, NewAppError(ErrCodeValidationInvalidDates,
			"end date must not be before start date", nil)
	}
	if days := int(e.Sub(s).Hours()/24) + 1; days > MaxTripDays {
		return time.Time{}, time.Time{}, NewAppError(ErrCodeValidationInvalidDates,
			fmt.Sprintf("date range spans %d days; maximum is %d", days, MaxTripDays), nil)
	}
	return s, e, nil
}
