package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fieldworks/parts-order-api/internal/models"
	"github.com/fieldworks/parts-order-api/pkg/response"
)

type codeService interface {
	ListRegions(activeOnly bool) ([]models.Region, error)
	ListTeams(region string, activeOnly bool) ([]models.Team, error)
	ListDeliveryPlaces(team string, activeOnly bool) ([]models.DeliveryPlace, error)
}

// CodeHandler serves the dropdown code tables.
type CodeHandler struct {
	service codeService
}

// NewCodeHandler constructs the handler.
func NewCodeHandler(service codeService) *CodeHandler {
	return &CodeHandler{service: service}
}

// Regions godoc
// @Summary Region codes
// @Tags Codes
// @Produce json
// @Param all query string false "Include inactive rows when true"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /codes/regions [get]
func (h *CodeHandler) Regions(c *gin.Context) {
	regions, err := h.service.ListRegions(!boolQuery(c, "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regions)
}

// Teams godoc
// @Summary Team codes
// @Tags Codes
// @Produce json
// @Param region query string false "Region filter"
// @Param all query string false "Include inactive rows when true"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /codes/teams [get]
func (h *CodeHandler) Teams(c *gin.Context) {
	teams, err := h.service.ListTeams(c.Query("region"), !boolQuery(c, "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams)
}

// DeliveryPlaces godoc
// @Summary Delivery places
// @Tags Codes
// @Produce json
// @Param team query string false "Team filter"
// @Param all query string false "Include inactive rows when true"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /codes/delivery-places [get]
func (h *CodeHandler) DeliveryPlaces(c *gin.Context) {
	places, err := h.service.ListDeliveryPlaces(c.Query("team"), !boolQuery(c, "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, places)
}

func boolQuery(c *gin.Context, key string) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(key)))
	return v == "true" || v == "1" || v == "y"
}
