package booking

import (
	"strings"
	"time"
)

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
)

// SearchCriteria is the immutable input of one flight search. It is
// replaced wholesale on every new search.
type SearchCriteria struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Passengers    int        `json:"passengers"`
	TripType      TripType   `json:"trip_type"`
}

// NewSearchCriteria normalizes the raw form input: airport codes are
// trimmed and uppercased, and the return date is dropped for one-way trips.
func NewSearchCriteria(origin, destination string, departure time.Time, ret *time.Time, passengers int, tripType TripType) SearchCriteria {
	c := SearchCriteria{
		Origin:        strings.ToUpper(strings.TrimSpace(origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(destination)),
		DepartureDate: departure,
		Passengers:    passengers,
		TripType:      tripType,
	}
	if tripType == TripRoundTrip {
		c.ReturnDate = ret
	}
	return c
}

func (c SearchCriteria) validate(now time.Time) error {
	if len(c.Origin) != 3 {
		return NewValidationError("origin must be a 3-letter airport code")
	}
	if len(c.Destination) != 3 {
		return NewValidationError("destination must be a 3-letter airport code")
	}
	if c.Origin == c.Destination {
		return NewValidationError("origin and destination must differ")
	}
	if c.DepartureDate.IsZero() {
		return NewValidationError("departure date is required")
	}
	if dateOnly(c.DepartureDate).Before(dateOnly(now)) {
		return NewValidationError("departure date must not be in the past")
	}
	if c.TripType != TripOneWay && c.TripType != TripRoundTrip {
		return NewValidationError("trip type must be one-way or round-trip")
	}
	if c.TripType == TripRoundTrip {
		if c.ReturnDate == nil || c.ReturnDate.IsZero() {
			return NewValidationError("return date is required for a round-trip")
		}
		if dateOnly(*c.ReturnDate).Before(dateOnly(c.DepartureDate)) {
			return NewValidationError("return date must not be before departure date")
		}
	}
	if c.Passengers < 1 || c.Passengers > 9 {
		return NewValidationError("passengers must be between 1 and 9")
	}
	return nil
}

// dateOnly drops the time-of-day so date comparisons are calendar based.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
