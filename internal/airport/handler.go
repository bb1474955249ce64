package airport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AirportHandler struct{}

func NewAirportHandler() *AirportHandler {
	return &AirportHandler{}
}

func (h *AirportHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/airports", h.SearchAirportsHandler)
}

func (h *AirportHandler) SearchAirportsHandler(c *gin.Context) {
	results := Search(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"airports": results})
}
