package booking

import (
	"fmt"
	"time"
)

// Price carries monetary amounts exactly as the inventory provider supplied
// them. Amounts stay decimal strings end to end; the engine never recomputes
// or reformats money.
type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type Endpoint struct {
	IATACode string    `json:"iataCode"`
	At       time.Time `json:"at"`
}

type Segment struct {
	CarrierCode string   `json:"carrierCode"`
	Number      string   `json:"number"`
	Departure   Endpoint `json:"departure"`
	Arrival     Endpoint `json:"arrival"`
}

// Itinerary is one direction of travel: an ordered chain of segments with
// zero or more stops.
type Itinerary struct {
	Segments []Segment `json:"segments"`
}

type FareDetail struct {
	SegmentID string `json:"segmentId"`
	Cabin     string `json:"cabin"`
}

// TravelerPricing is one fare line item. The number of line items on an
// offer is the number of seats the offer covers.
type TravelerPricing struct {
	Price       Price        `json:"price"`
	FareDetails []FareDetail `json:"fareDetailsBySegment"`
}

// Offer is one bookable result as returned by the inventory provider.
// Offers are immutable once returned; normalization only derives new
// fields and never rewrites these.
type Offer struct {
	ID               string            `json:"id"`
	Itineraries      []Itinerary       `json:"itineraries"`
	Price            Price             `json:"price"`
	TravelerPricings []TravelerPricing `json:"travelerPricings,omitempty"`
}

// Capacity is the passenger count the offer was priced for. Offers without
// fare line items cover a single passenger.
func (o Offer) Capacity() int {
	if len(o.TravelerPricings) == 0 {
		return 1
	}
	return len(o.TravelerPricings)
}

// ItineraryView is an itinerary plus its derived, non-authoritative fields.
type ItineraryView struct {
	Itinerary
	DurationMinutes int `json:"duration_minutes"`
	StopCount       int `json:"stop_count"`
}

// OfferView is the normalized form of an Offer that the rest of the
// workflow consumes. Trip is derived from the offer's own itinerary count,
// never from the originating search criteria: the offer's shape is the
// single source of truth for one-way vs round-trip.
type OfferView struct {
	Offer             Offer          `json:"offer"`
	Trip              TripType       `json:"trip"`
	Outbound          ItineraryView  `json:"outbound"`
	Return            *ItineraryView `json:"return,omitempty"`
	TotalPrice        Price          `json:"total_price"`
	PricePerPassenger Price          `json:"price_per_passenger"`
	Capacity          int            `json:"capacity"`
}

// NormalizeOffer derives the view fields for one raw offer. It is a pure
// transform: the embedded Offer is carried through untouched.
func NormalizeOffer(o Offer) (OfferView, error) {
	switch len(o.Itineraries) {
	case 1, 2:
	case 0:
		return OfferView{}, NewMalformedOfferError("offer " + o.ID + " has no itineraries")
	default:
		return OfferView{}, NewMalformedOfferError(
			fmt.Sprintf("offer %s has unexpected itinerary count %d", o.ID, len(o.Itineraries)))
	}

	if o.Price.Total == "" || o.Price.Currency == "" {
		return OfferView{}, NewMalformedOfferError("offer " + o.ID + " is missing price or currency")
	}

	views := make([]ItineraryView, 0, len(o.Itineraries))
	for i, itin := range o.Itineraries {
		view, err := normalizeItinerary(itin)
		if err != nil {
			return OfferView{}, fmt.Errorf("offer %s itinerary %d: %w", o.ID, i, err)
		}
		views = append(views, view)
	}

	out := OfferView{
		Offer:             o,
		Trip:              TripOneWay,
		Outbound:          views[0],
		TotalPrice:        o.Price,
		PricePerPassenger: o.Price,
		Capacity:          o.Capacity(),
	}
	if len(views) == 2 {
		out.Trip = TripRoundTrip
		out.Return = &views[1]
	}

	// The fare line item is authoritative for the per-passenger price; it
	// is never recomputed by dividing the total.
	if len(o.TravelerPricings) > 0 {
		pp := o.TravelerPricings[0].Price
		if pp.Total == "" || pp.Currency == "" {
			return OfferView{}, NewMalformedOfferError("offer " + o.ID + " has a fare line item without price or currency")
		}
		out.PricePerPassenger = pp
	}

	return out, nil
}

func normalizeItinerary(itin Itinerary) (ItineraryView, error) {
	if len(itin.Segments) == 0 {
		return ItineraryView{}, NewMalformedOfferError("itinerary has no segments")
	}

	// Timestamps must be strictly increasing across the whole chain:
	// dep[0] < arr[0] <= ... < arr[last].
	prev := time.Time{}
	for _, seg := range itin.Segments {
		if seg.Departure.At.IsZero() || seg.Arrival.At.IsZero() {
			return ItineraryView{}, NewMalformedOfferError("segment is missing a timestamp")
		}
		if !prev.IsZero() && !seg.Departure.At.After(prev) {
			return ItineraryView{}, NewMalformedOfferError("segment timestamps are not strictly increasing")
		}
		if !seg.Arrival.At.After(seg.Departure.At) {
			return ItineraryView{}, NewMalformedOfferError("segment timestamps are not strictly increasing")
		}
		prev = seg.Arrival.At
	}

	first := itin.Segments[0]
	last := itin.Segments[len(itin.Segments)-1]

	// Whole minutes, fractional seconds discarded, never rounded up.
	duration := last.Arrival.At.Sub(first.Departure.At) / time.Minute

	return ItineraryView{
		Itinerary:       itin,
		DurationMinutes: int(duration),
		StopCount:       len(itin.Segments) - 1,
	}, nil
}

// NormalizeOffers normalizes a full search response. Malformed offers are
// excluded rather than silently coerced; the offer IDs that were dropped
// are returned so the caller can surface them. If every offer in a
// non-empty response is malformed, the whole response is rejected.
func NormalizeOffers(offers []Offer) ([]OfferView, []string, error) {
	views := make([]OfferView, 0, len(offers))
	var dropped []string
	for _, o := range offers {
		view, err := NormalizeOffer(o)
		if err != nil {
			dropped = append(dropped, o.ID)
			continue
		}
		views = append(views, view)
	}
	if len(offers) > 0 && len(views) == 0 {
		return nil, dropped, NewMalformedOfferError("every offer in the response is malformed")
	}
	return views, dropped, nil
}
