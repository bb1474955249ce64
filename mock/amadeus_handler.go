package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type SearchResponse struct {
	Data []Offer `json:"data"`
}

type Offer struct {
	ID               string            `json:"id"`
	Itineraries      []Itinerary       `json:"itineraries"`
	Price            Price             `json:"price"`
	TravelerPricings []TravelerPricing `json:"travelerPricings"`
}

type Itinerary struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	CarrierCode string   `json:"carrierCode"`
	Number      string   `json:"number"`
	Departure   Endpoint `json:"departure"`
	Arrival     Endpoint `json:"arrival"`
}

type Endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type TravelerPricing struct {
	Price       Price        `json:"price"`
	FareDetails []FareDetail `json:"fareDetailsBySegment"`
}

type FareDetail struct {
	SegmentID string `json:"segmentId"`
	Cabin     string `json:"cabin"`
}

type OrderResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

var carriers = []string{"GA", "QZ", "ID", "JT", "SQ", "TR"}

func TokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{AccessToken: "mock-token", ExpiresIn: 1799})
}

func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	origin := q.Get("originLocationCode")
	destination := q.Get("destinationLocationCode")
	departureDate := q.Get("departureDate")
	returnDate := q.Get("returnDate")
	adults := q.Get("adults")

	if origin == "" || destination == "" || departureDate == "" {
		http.Error(w, `{"errors":[{"detail":"origin, destination and departureDate are required"}]}`, http.StatusBadRequest)
		return
	}

	passengers := 1
	fmt.Sscanf(adults, "%d", &passengers)

	offers := make([]Offer, 0, 6)
	for i := 0; i < 6; i++ {
		offer := buildOffer(i+1, origin, destination, departureDate, returnDate, passengers)
		offers = append(offers, offer)
	}

	delay := 50 + rand.Intn(51) // 50 to 100ms
	time.Sleep(time.Duration(delay) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{Data: offers})
}

func buildOffer(n int, origin, destination, departureDate, returnDate string, passengers int) Offer {
	carrier := carriers[n%len(carriers)]
	perPassenger := 85 + n*37
	total := perPassenger * passengers

	offer := Offer{
		ID:    fmt.Sprintf("%d", n),
		Price: Price{Total: fmt.Sprintf("%d.00", total), Currency: "EUR"},
	}

	offer.Itineraries = append(offer.Itineraries,
		buildItinerary(carrier, n, origin, destination, departureDate))
	if returnDate != "" {
		offer.Itineraries = append(offer.Itineraries,
			buildItinerary(carrier, n+50, destination, origin, returnDate))
	}

	for p := 0; p < passengers; p++ {
		pricing := TravelerPricing{
			Price: Price{Total: fmt.Sprintf("%d.00", perPassenger), Currency: "EUR"},
		}
		for s := range offer.Itineraries {
			pricing.FareDetails = append(pricing.FareDetails, FareDetail{
				SegmentID: fmt.Sprintf("%d", s+1),
				Cabin:     "ECONOMY",
			})
		}
		offer.TravelerPricings = append(offer.TravelerPricings, pricing)
	}

	return offer
}

func buildItinerary(carrier string, n int, origin, destination, date string) Itinerary {
	depHour := 6 + n%14
	durationMinutes := 95 + (n*45)%420

	dep, _ := time.Parse("2006-01-02", date)
	dep = dep.Add(time.Duration(depHour) * time.Hour)
	arr := dep.Add(time.Duration(durationMinutes) * time.Minute)

	const layout = "2006-01-02T15:04:05"
	return Itinerary{
		Segments: []Segment{{
			CarrierCode: carrier,
			Number:      fmt.Sprintf("%d", 100+n*7),
			Departure:   Endpoint{IATACode: origin, At: dep.Format(layout)},
			Arrival:     Endpoint{IATACode: destination, At: arr.Format(layout)},
		}},
	}
}

func PricingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"errors":[{"detail":"invalid request body"}]}`, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body) // echo the offers back as "validated"
}

func OrderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var resp OrderResponse
	resp.Data.ID = fmt.Sprintf("PNR%06d", rand.Intn(1000000))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}
