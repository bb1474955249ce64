package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)

func validCriteria() SearchCriteria {
	departure := testNow.AddDate(0, 0, 9)
	return NewSearchCriteria("cgk", "dps", departure, nil, 2, TripOneWay)
}

func TestNewSearchCriteria_NormalizesCodes(t *testing.T) {
	c := NewSearchCriteria(" cgk ", "dps", testNow, nil, 1, TripOneWay)

	assert.Equal(t, "CGK", c.Origin)
	assert.Equal(t, "DPS", c.Destination)
}

func TestNewSearchCriteria_DropsReturnDateForOneWay(t *testing.T) {
	ret := testNow.AddDate(0, 0, 14)
	c := NewSearchCriteria("CGK", "DPS", testNow, &ret, 1, TripOneWay)

	assert.Nil(t, c.ReturnDate)
}

func TestSearchCriteria_Validate(t *testing.T) {
	ret := testNow.AddDate(0, 0, 16)
	retBeforeDeparture := testNow.AddDate(0, 0, 2)

	tests := []struct {
		name    string
		mutate  func(*SearchCriteria)
		wantErr bool
	}{
		{
			name:   "valid one-way",
			mutate: func(c *SearchCriteria) {},
		},
		{
			name: "valid round-trip",
			mutate: func(c *SearchCriteria) {
				c.TripType = TripRoundTrip
				c.ReturnDate = &ret
			},
		},
		{
			name: "departure today is allowed",
			mutate: func(c *SearchCriteria) {
				c.DepartureDate = testNow
			},
		},
		{
			name:    "empty origin",
			mutate:  func(c *SearchCriteria) { c.Origin = "" },
			wantErr: true,
		},
		{
			name:    "origin not a 3-letter code",
			mutate:  func(c *SearchCriteria) { c.Origin = "JAKARTA" },
			wantErr: true,
		},
		{
			name:    "empty destination",
			mutate:  func(c *SearchCriteria) { c.Destination = "" },
			wantErr: true,
		},
		{
			name:    "origin equals destination",
			mutate:  func(c *SearchCriteria) { c.Destination = c.Origin },
			wantErr: true,
		},
		{
			name:    "missing departure date",
			mutate:  func(c *SearchCriteria) { c.DepartureDate = time.Time{} },
			wantErr: true,
		},
		{
			name: "departure in the past",
			mutate: func(c *SearchCriteria) {
				c.DepartureDate = testNow.AddDate(0, 0, -1)
			},
			wantErr: true,
		},
		{
			name:    "unknown trip type",
			mutate:  func(c *SearchCriteria) { c.TripType = "open-jaw" },
			wantErr: true,
		},
		{
			name: "round-trip without return date",
			mutate: func(c *SearchCriteria) {
				c.TripType = TripRoundTrip
				c.ReturnDate = nil
			},
			wantErr: true,
		},
		{
			name: "return before departure",
			mutate: func(c *SearchCriteria) {
				c.TripType = TripRoundTrip
				c.ReturnDate = &retBeforeDeparture
			},
			wantErr: true,
		},
		{
			name:    "zero passengers",
			mutate:  func(c *SearchCriteria) { c.Passengers = 0 },
			wantErr: true,
		},
		{
			name:    "too many passengers",
			mutate:  func(c *SearchCriteria) { c.Passengers = 10 },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validCriteria()
			tc.mutate(&c)

			err := c.validate(testNow)
			if tc.wantErr {
				require.Error(t, err)
				assertErrorCode(t, err, ErrorCodeValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}
