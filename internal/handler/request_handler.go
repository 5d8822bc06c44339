package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
	"github.com/fieldworks/parts-order-api/pkg/response"
)

type requestService interface {
	CreateRequest(input dto.CreateRequestInput, actor *models.JWTClaims) (*dto.CreateRequestResult, error)
	UpdateStatus(requestNo string, input dto.UpdateStatusInput, actor *models.JWTClaims) error
	GetRequest(requestNo string, actor *models.JWTClaims) (*models.Request, error)
	GetMyRequests(userID string) ([]dto.MyRequest, error)
	ListRequests(filter models.RequestFilter) ([]models.Request, error)
}

// RequestHandler wires the request lifecycle to HTTP endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create godoc
// @Summary Submit a new request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateRequestInput true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var input dto.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	result, err := h.service.CreateRequest(input, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Duplicate {
		response.JSON(c, http.StatusOK, result)
		return
	}
	response.Created(c, result)
}

// My godoc
// @Summary The caller's own requests
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/my [get]
func (h *RequestHandler) My(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.service.GetMyRequests(claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// List godoc
// @Summary All requests, optionally filtered
// @Tags Requests
// @Produce json
// @Param status query string false "Status filter"
// @Param requesterId query string false "Requester filter"
// @Param assetNo query string false "Asset filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	filter := models.RequestFilter{
		Status:      models.RequestStatus(c.Query("status")),
		RequesterID: c.Query("requesterId"),
		AssetNo:     c.Query("assetNo"),
	}
	list, err := h.service.ListRequests(filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Get godoc
// @Summary One request by number
// @Tags Requests
// @Produce json
// @Param requestNo path string true "Request number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{requestNo} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.service.GetRequest(c.Param("requestNo"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req)
}

// UpdateStatus godoc
// @Summary Transition a request to a new status
// @Tags Requests
// @Accept json
// @Produce json
// @Param requestNo path string true "Request number"
// @Param payload body dto.UpdateStatusInput true "Transition payload"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{requestNo}/status [patch]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var input dto.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.UpdateStatus(c.Param("requestNo"), input, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Cancel an unprocessed request
// @Tags Requests
// @Produce json
// @Param requestNo path string true "Request number"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{requestNo}/cancel [post]
func (h *RequestHandler) Cancel(c *gin.Context) {
	input := dto.UpdateStatusInput{Status: models.StatusCancelled}
	if err := h.service.UpdateStatus(c.Param("requestNo"), input, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ConfirmReceipt godoc
// @Summary Confirm receipt of a completed order
// @Tags Requests
// @Produce json
// @Param requestNo path string true "Request number"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /requests/{requestNo}/receipt [post]
func (h *RequestHandler) ConfirmReceipt(c *gin.Context) {
	input := dto.UpdateStatusInput{Status: models.StatusFinished}
	if err := h.service.UpdateStatus(c.Param("requestNo"), input, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
