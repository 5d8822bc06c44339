package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	"github.com/fieldworks/parts-order-api/internal/service"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
	"github.com/fieldworks/parts-order-api/pkg/response"
)

const maxImportSize = 10 << 20

// AdminHandler exposes account and master-data management plus the bulk
// import/export/report operations. Every route behind it requires the admin
// role.
type AdminHandler struct {
	service *service.MasterService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(svc *service.MasterService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ListUsers godoc
// @Summary All accounts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// CreateUser godoc
// @Summary Register an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserInput true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input dto.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}
	user, err := h.service.CreateUser(input, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser godoc
// @Summary Update an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param payload body dto.UpdateUserInput true "Partial account payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users/{userId} [patch]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var input dto.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}
	if err := h.service.UpdateUser(c.Param("userId"), input, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateDeliveryPlace godoc
// @Summary Register a delivery place
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateDeliveryPlaceInput true "Delivery place payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/delivery-places [post]
func (h *AdminHandler) CreateDeliveryPlace(c *gin.Context) {
	var input dto.CreateDeliveryPlaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delivery place payload"))
		return
	}
	place, err := h.service.CreateDeliveryPlace(input, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, place)
}

// UpdateDeliveryPlace godoc
// @Summary Update a delivery place
// @Description The target is identified by the name and team query parameters
// @Tags Admin
// @Accept json
// @Produce json
// @Param name query string true "Delivery place name"
// @Param team query string true "Team"
// @Param payload body dto.UpdateDeliveryPlaceInput true "Partial delivery place payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/delivery-places [patch]
func (h *AdminHandler) UpdateDeliveryPlace(c *gin.Context) {
	name := c.Query("name")
	team := c.Query("team")
	if name == "" || team == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name and team query parameters are required"))
		return
	}
	var input dto.UpdateDeliveryPlaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delivery place payload"))
		return
	}
	if err := h.service.UpdateDeliveryPlace(name, team, input, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Bulk import a roster or delivery place CSV
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/import [post]
func (h *AdminHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a csv file upload is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv file is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	result, err := h.service.ImportCSV(data, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Download the master workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	data, fileName, err := h.service.ExportWorkbook(claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Report godoc
// @Summary Render the request list as CSV or PDF
// @Tags Admin
// @Produce json
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "Status filter"
// @Param requesterId query string false "Requester filter"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/report [get]
func (h *AdminHandler) Report(c *gin.Context) {
	filter := models.RequestFilter{
		Status:      models.RequestStatus(c.Query("status")),
		RequesterID: c.Query("requesterId"),
		AssetNo:     c.Query("assetNo"),
	}
	data, fileName, contentType, err := h.service.BuildRequestReport(filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Logs godoc
// @Summary Audit trail entries
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	logs, err := h.service.ListLogs()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs)
}
