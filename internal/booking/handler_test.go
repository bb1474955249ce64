package booking

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"durianflight/pkg/idgen"
	"durianflight/pkg/logger"
)

type fixedGenerator struct {
	next int64
}

func (g *fixedGenerator) GenerateID() int64 {
	g.next++
	return g.next
}

func newTestRouter(t *testing.T, inv Inventory) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var gen idgen.Generator = &fixedGenerator{}
	log := logger.NewWithWriter("development", io.Discard)

	service := NewService(inv, &recordingNotifier{}, gen, log)
	router := gin.New()
	NewBookingHandler(service).RegisterRoutes(router)
	return router, service
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTestSession(t *testing.T, router *gin.Engine, service *Service) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	id := body["session_id"]
	require.NotEmpty(t, id)

	// Pin the clock so date validation is deterministic.
	wf, err := service.Workflow(id)
	require.NoError(t, err)
	wf.now = func() time.Time { return testNow }

	return id
}

func TestHandler_CreateAndGetSession(t *testing.T) {
	router, service := newTestRouter(t, &MockInventory{})
	id := createTestSession(t, router, service)

	w := doJSON(router, http.MethodGet, "/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	var session Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageLanding, session.Stage)
	assert.False(t, session.Busy)
}

func TestHandler_SessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &MockInventory{})

	w := doJSON(router, http.MethodGet, "/v1/sessions/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(ErrorCodeNotFound), body["code"])
}

func TestHandler_SearchFlow(t *testing.T) {
	inv := &MockInventory{}
	inv.On("Search", mock.Anything, mock.Anything).Return(searchResults(), nil)

	router, service := newTestRouter(t, inv)
	id := createTestSession(t, router, service)

	payload := fmt.Sprintf(`{
		"origin": "cgk",
		"destination": "dps",
		"departure_date": "%s",
		"passengers": 2
	}`, testNow.AddDate(0, 0, 9).Format(dateLayout))

	w := doJSON(router, http.MethodPost, "/v1/sessions/"+id+"/search", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var session Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageResults, session.Stage)
	assert.Len(t, session.Offers, 3)
	require.NotNil(t, session.Criteria)
	assert.Equal(t, "CGK", session.Criteria.Origin)
	assert.Equal(t, TripOneWay, session.Criteria.TripType)
}

func TestHandler_SearchRejectsBadDate(t *testing.T) {
	router, service := newTestRouter(t, &MockInventory{})
	id := createTestSession(t, router, service)

	w := doJSON(router, http.MethodPost, "/v1/sessions/"+id+"/search",
		`{"origin": "CGK", "destination": "DPS", "departure_date": "09/10/2026", "passengers": 1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(ErrorCodeValidation), body["code"])
}

func TestHandler_SearchRejectsInvalidJSON(t *testing.T) {
	router, service := newTestRouter(t, &MockInventory{})
	id := createTestSession(t, router, service)

	w := doJSON(router, http.MethodPost, "/v1/sessions/"+id+"/search", `{"origin":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SelectAndBook(t *testing.T) {
	inv := &MockInventory{}
	inv.On("Search", mock.Anything, mock.Anything).Return(searchResults(), nil)
	inv.On("Book", mock.Anything, mock.Anything).Return("PNR000042", nil)

	router, service := newTestRouter(t, inv)
	id := createTestSession(t, router, service)
	base := "/v1/sessions/" + id

	payload := fmt.Sprintf(`{"origin": "CGK", "destination": "DPS", "departure_date": "%s", "passengers": 2}`,
		testNow.AddDate(0, 0, 9).Format(dateLayout))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/search", payload).Code)

	w := doJSON(router, http.MethodPost, base+"/select", `{"offer_id": "2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var session Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageBooking, session.Stage)
	require.Len(t, session.Travelers, 2)

	for i := 0; i < 2; i++ {
		for field, value := range map[string]string{
			"fullName":       "John Doe",
			"passportNumber": "A12345678",
			"email":          "john@example.com",
		} {
			body := fmt.Sprintf(`{"index": %d, "field": %q, "value": %q}`, i, field, value)
			require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/travelers", body).Code)
		}
	}

	w = doJSON(router, http.MethodPost, base+"/book", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageConfirmed, session.Stage)
	assert.Equal(t, "PNR000042", session.BookingCode)
}

func TestHandler_BookIncompleteTravelersReportsIndices(t *testing.T) {
	inv := &MockInventory{}
	inv.On("Search", mock.Anything, mock.Anything).Return(searchResults(), nil)

	router, service := newTestRouter(t, inv)
	id := createTestSession(t, router, service)
	base := "/v1/sessions/" + id

	payload := fmt.Sprintf(`{"origin": "CGK", "destination": "DPS", "departure_date": "%s", "passengers": 2}`,
		testNow.AddDate(0, 0, 9).Format(dateLayout))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/search", payload).Code)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/select", `{"offer_id": "1"}`).Code)

	w := doJSON(router, http.MethodPost, base+"/book", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code           string `json:"code"`
		InvalidIndices []int  `json:"invalid_indices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(ErrorCodeValidation), body.Code)
	assert.Equal(t, []int{0, 1}, body.InvalidIndices)
}

func TestHandler_SelectUnknownOffer(t *testing.T) {
	inv := &MockInventory{}
	inv.On("Search", mock.Anything, mock.Anything).Return(searchResults(), nil)

	router, service := newTestRouter(t, inv)
	id := createTestSession(t, router, service)
	base := "/v1/sessions/" + id

	payload := fmt.Sprintf(`{"origin": "CGK", "destination": "DPS", "departure_date": "%s", "passengers": 1}`,
		testNow.AddDate(0, 0, 9).Format(dateLayout))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/search", payload).Code)

	w := doJSON(router, http.MethodPost, base+"/select", `{"offer_id": "99"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(ErrorCodeInvalidSelection), body["code"])
}

func TestHandler_BackAndReset(t *testing.T) {
	inv := &MockInventory{}
	inv.On("Search", mock.Anything, mock.Anything).Return(searchResults(), nil)

	router, service := newTestRouter(t, inv)
	id := createTestSession(t, router, service)
	base := "/v1/sessions/" + id

	payload := fmt.Sprintf(`{"origin": "CGK", "destination": "DPS", "departure_date": "%s", "passengers": 1}`,
		testNow.AddDate(0, 0, 9).Format(dateLayout))
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/search", payload).Code)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, base+"/select", `{"offer_id": "1"}`).Code)

	w := doJSON(router, http.MethodPost, base+"/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	var session Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageResults, session.Stage)
	assert.Len(t, session.Offers, 3)

	w = doJSON(router, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	session = Session{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, StageLanding, session.Stage)
	assert.Empty(t, session.Offers)
}
