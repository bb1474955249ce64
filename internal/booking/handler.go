package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service *Service
}

func NewBookingHandler(s *Service) *BookingHandler {
	return &BookingHandler{
		service: s,
	}
}

func (h *BookingHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/sessions", h.CreateSessionHandler)
	router.GET("/v1/sessions/:id", h.GetSessionHandler)
	router.POST("/v1/sessions/:id/search", h.SearchHandler)
	router.POST("/v1/sessions/:id/select", h.SelectOfferHandler)
	router.POST("/v1/sessions/:id/travelers", h.UpdateTravelerHandler)
	router.POST("/v1/sessions/:id/book", h.ConfirmBookingHandler)
	router.POST("/v1/sessions/:id/back", h.BackHandler)
	router.POST("/v1/sessions/:id/reset", h.NewSearchHandler)
}

func (h *BookingHandler) CreateSessionHandler(c *gin.Context) {
	id := h.service.CreateSession()
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (h *BookingHandler) GetSessionHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

type searchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Passengers    int    `json:"passengers"`
	TripType      string `json:"trip_type"`
}

const dateLayout = "2006-01-02"

func (h *BookingHandler) SearchHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  ErrorCodeValidation,
		})
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		sendError(c, err)
		return
	}

	if err := wf.SubmitSearch(c.Request.Context(), criteria); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

func (r searchRequest) toCriteria() (SearchCriteria, error) {
	departure, err := time.Parse(dateLayout, r.DepartureDate)
	if err != nil {
		return SearchCriteria{}, NewValidationError("departure_date must be formatted YYYY-MM-DD")
	}

	var ret *time.Time
	if r.ReturnDate != "" {
		parsed, err := time.Parse(dateLayout, r.ReturnDate)
		if err != nil {
			return SearchCriteria{}, NewValidationError("return_date must be formatted YYYY-MM-DD")
		}
		ret = &parsed
	}

	tripType := TripType(r.TripType)
	if r.TripType == "" {
		tripType = TripOneWay
		if ret != nil {
			tripType = TripRoundTrip
		}
	}

	return NewSearchCriteria(r.Origin, r.Destination, departure, ret, r.Passengers, tripType), nil
}

type selectOfferRequest struct {
	OfferID string `json:"offer_id"`
}

func (h *BookingHandler) SelectOfferHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}

	var req selectOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  ErrorCodeValidation,
		})
		return
	}

	if err := wf.SelectOffer(req.OfferID); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

type updateTravelerRequest struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *BookingHandler) UpdateTravelerHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}

	var req updateTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  ErrorCodeValidation,
		})
		return
	}

	if err := wf.UpdateTraveler(req.Index, TravelerField(req.Field), req.Value); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	if err := wf.ConfirmBooking(c.Request.Context()); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

func (h *BookingHandler) BackHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	if err := wf.Back(); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

func (h *BookingHandler) NewSearchHandler(c *gin.Context) {
	wf, err := h.service.Workflow(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	if err := wf.NewSearch(); err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, wf.Session())
}

func sendError(c *gin.Context, err error) {
	var appErr *AppError

	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error":           appErr.Message,
			"code":            appErr.Code,
			"invalid_indices": appErr.InvalidIndices,
		})
		return
	}

	// Default to 500 for unknown errors
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"code":    ErrorCodeInternalFailure,
		"details": err.Error(),
	})
}
