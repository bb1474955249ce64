package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"durianflight/internal/booking"
	"durianflight/pkg/logger"
)

// AmadeusClient talks to an Amadeus-style flight inventory and booking
// API. It implements booking.Inventory.
type AmadeusClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       logger.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusClient(httpClient *http.Client, baseURL, clientID, clientSecret string, logger logger.Client) *AmadeusClient {
	return &AmadeusClient{
		httpClient:   httpClient,
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

type amadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amadeusSearchResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	ID               string                   `json:"id"`
	Itineraries      []amadeusItinerary       `json:"itineraries"`
	Price            amadeusPrice             `json:"price"`
	TravelerPricings []amadeusTravelerPricing `json:"travelerPricings,omitempty"`
}

type amadeusItinerary struct {
	Segments []amadeusSegment `json:"segments"`
}

type amadeusSegment struct {
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
	Departure   amadeusEndpoint `json:"departure"`
	Arrival     amadeusEndpoint `json:"arrival"`
}

type amadeusEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"` // local time without zone offset
}

type amadeusPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type amadeusTravelerPricing struct {
	Price       amadeusPrice        `json:"price"`
	FareDetails []amadeusFareDetail `json:"fareDetailsBySegment"`
}

type amadeusFareDetail struct {
	SegmentID string `json:"segmentId"`
	Cabin     string `json:"cabin"`
}

type amadeusErrorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
	Error string `json:"error"`
}

// token returns a cached client-credentials token, fetching a fresh one
// when the cached token is within 30 seconds of expiry.
func (a *AmadeusClient) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry.Add(-30*time.Second)) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	tokenURL := fmt.Sprintf("%s/v1/security/oauth2/token", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned non-200 status: %d", resp.StatusCode)
	}

	var tokenResp amadeusTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	a.accessToken = tokenResp.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return a.accessToken, nil
}

func (a *AmadeusClient) Search(ctx context.Context, criteria booking.SearchCriteria) ([]booking.Offer, error) {
	token, err := a.token(ctx)
	if err != nil {
		a.logger.Error("failed to fetch amadeus token", logger.Field{Key: "err", Value: err.Error()})
		return nil, err
	}

	query := url.Values{}
	query.Set("originLocationCode", criteria.Origin)
	query.Set("destinationLocationCode", criteria.Destination)
	query.Set("departureDate", criteria.DepartureDate.Format("2006-01-02"))
	query.Set("adults", strconv.Itoa(criteria.Passengers))
	query.Set("max", "10")
	if criteria.ReturnDate != nil {
		query.Set("returnDate", criteria.ReturnDate.Format("2006-01-02"))
	}

	searchURL := fmt.Sprintf("%s/v2/shopping/flight-offers?%s", a.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("external api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight search failed: %s", readAPIError(resp.Body, resp.StatusCode))
	}

	var apiResp amadeusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return a.mapOffers(apiResp.Data)
}

func (a *AmadeusClient) mapOffers(raw []amadeusOffer) ([]booking.Offer, error) {
	mapped := make([]booking.Offer, 0, len(raw))
	for _, o := range raw {
		offer := booking.Offer{
			ID:    o.ID,
			Price: booking.Price{Total: o.Price.Total, Currency: o.Price.Currency},
		}
		for _, itin := range o.Itineraries {
			segments := make([]booking.Segment, 0, len(itin.Segments))
			for _, seg := range itin.Segments {
				segments = append(segments, booking.Segment{
					CarrierCode: seg.CarrierCode,
					Number:      seg.Number,
					Departure: booking.Endpoint{
						IATACode: seg.Departure.IATACode,
						At:       parseAmadeusTime(seg.Departure.At),
					},
					Arrival: booking.Endpoint{
						IATACode: seg.Arrival.IATACode,
						At:       parseAmadeusTime(seg.Arrival.At),
					},
				})
			}
			offer.Itineraries = append(offer.Itineraries, booking.Itinerary{Segments: segments})
		}
		for _, tp := range o.TravelerPricings {
			pricing := booking.TravelerPricing{
				Price: booking.Price{Total: tp.Price.Total, Currency: tp.Price.Currency},
			}
			for _, fd := range tp.FareDetails {
				pricing.FareDetails = append(pricing.FareDetails, booking.FareDetail{
					SegmentID: fd.SegmentID,
					Cabin:     fd.Cabin,
				})
			}
			offer.TravelerPricings = append(offer.TravelerPricings, pricing)
		}
		mapped = append(mapped, offer)
	}
	return mapped, nil
}

// parseAmadeusTime handles the API's zone-less local timestamps, falling
// back to RFC3339 for providers that include an offset. A zero time is
// returned for unparseable input and rejected later by normalization.
func parseAmadeusTime(value string) time.Time {
	const amadeusLayout = "2006-01-02T15:04:05"
	if t, err := time.Parse(amadeusLayout, value); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

type amadeusOrderRequest struct {
	Data amadeusOrderData `json:"data"`
}

type amadeusOrderData struct {
	Type         string            `json:"type"`
	FlightOffers []json.RawMessage `json:"flightOffers"`
	Travelers    []amadeusTraveler `json:"travelers,omitempty"`
}

type amadeusTraveler struct {
	ID          string            `json:"id"`
	DateOfBirth string            `json:"dateOfBirth"`
	Name        amadeusName       `json:"name"`
	Gender      string            `json:"gender"`
	Contact     amadeusContact    `json:"contact"`
	Documents   []amadeusDocument `json:"documents"`
}

type amadeusName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type amadeusContact struct {
	EmailAddress string `json:"emailAddress"`
}

type amadeusDocument struct {
	DocumentType string `json:"documentType"`
	Number       string `json:"number"`
	Holder       bool   `json:"holder"`
}

type amadeusOrderResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Book validates the offer price and creates the flight order, returning
// the provider's booking reference.
func (a *AmadeusClient) Book(ctx context.Context, req booking.BookingRequest) (string, error) {
	token, err := a.token(ctx)
	if err != nil {
		a.logger.Error("failed to fetch amadeus token", logger.Field{Key: "err", Value: err.Error()})
		return "", err
	}

	rawOffer, err := json.Marshal(req.Offer)
	if err != nil {
		return "", fmt.Errorf("failed to encode offer: %w", err)
	}

	// Step 1: re-price the offer. A changed price or sold-out flight
	// surfaces here before an order is attempted.
	pricingBody := amadeusOrderRequest{
		Data: amadeusOrderData{
			Type:         "flight-offers-pricing",
			FlightOffers: []json.RawMessage{rawOffer},
		},
	}
	pricingURL := fmt.Sprintf("%s/v1/shopping/flight-offers/pricing", a.baseURL)
	if _, err := a.post(ctx, pricingURL, token, pricingBody); err != nil {
		return "", fmt.Errorf("price is no longer available, search again: %w", err)
	}

	// Step 2: create the order.
	orderBody := amadeusOrderRequest{
		Data: amadeusOrderData{
			Type:         "flight-order",
			FlightOffers: []json.RawMessage{rawOffer},
			Travelers:    mapTravelers(req.Travelers),
		},
	}
	orderURL := fmt.Sprintf("%s/v1/booking/flight-orders", a.baseURL)
	body, err := a.post(ctx, orderURL, token, orderBody)
	if err != nil {
		return "", err
	}

	var orderResp amadeusOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	if orderResp.Data.ID == "" {
		return "", fmt.Errorf("order response is missing a booking reference")
	}

	return orderResp.Data.ID, nil
}

func (a *AmadeusClient) post(ctx context.Context, postURL, token string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("external api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if strings.Contains(string(body), "SEGMENT SELL FAILURE") {
			return nil, fmt.Errorf("seats are sold out, choose another flight")
		}
		return nil, fmt.Errorf("%s", readAPIError(bytes.NewReader(body), resp.StatusCode))
	}

	return body, nil
}

func mapTravelers(travelers []booking.TravelerRecord) []amadeusTraveler {
	mapped := make([]amadeusTraveler, 0, len(travelers))
	for _, t := range travelers {
		first, last := splitName(t.FullName)
		mapped = append(mapped, amadeusTraveler{
			ID:          strconv.Itoa(t.ID),
			DateOfBirth: "1990-01-01",
			Name:        amadeusName{FirstName: first, LastName: last},
			Gender:      string(t.Gender),
			Contact:     amadeusContact{EmailAddress: t.Email},
			Documents: []amadeusDocument{{
				DocumentType: "PASSPORT",
				Number:       t.PassportNumber,
				Holder:       true,
			}},
		})
	}
	return mapped
}

// splitName maps a single full-name field onto the API's first/last pair.
// Single-word names get a placeholder last name, which the API requires.
func splitName(fullName string) (string, string) {
	parts := strings.Fields(strings.ToUpper(fullName))
	if len(parts) == 0 {
		return "", "UNKNOWN"
	}
	if len(parts) == 1 {
		return parts[0], "UNKNOWN"
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func readAPIError(r io.Reader, status int) string {
	var apiErr amadeusErrorResponse
	if err := json.NewDecoder(r).Decode(&apiErr); err == nil {
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Detail != "" {
			return apiErr.Errors[0].Detail
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return fmt.Sprintf("external api returned non-200 status: %d", status)
}
