package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
	"github.com/fieldworks/parts-order-api/pkg/response"
)

type dashboardService interface {
	GetDashboardData(actor *models.JWTClaims, startDate, endDate string) (*dto.DashboardResponse, error)
}

// DashboardHandler wires the dashboard aggregate to HTTP.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get godoc
// @Summary Dashboard summary
// @Description Lifetime and period statistics with urgency lists; scoped to the caller unless admin
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "Period start (YYYY-MM-DD), defaults to the first of this month"
// @Param endDate query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, err := h.service.GetDashboardData(claims, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}
