package handler

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
	"github.com/fieldworks/parts-order-api/pkg/response"
)

type attachmentOpener interface {
	Open(requestNo, fileName string) (*os.File, error)
}

// AttachmentHandler serves stored request photos.
type AttachmentHandler struct {
	store attachmentOpener
}

// NewAttachmentHandler constructs the handler.
func NewAttachmentHandler(store attachmentOpener) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// Download godoc
// @Summary Download a request photo
// @Tags Attachments
// @Produce image/jpeg
// @Param requestNo path string true "Request number"
// @Param fileName path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /attachments/{requestNo}/{fileName} [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	requestNo := c.Param("requestNo")
	fileName := c.Param("fileName")

	file, err := h.store.Open(requestNo, fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "attachment not found"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "attachment not available"))
		return
	}
	defer file.Close()

	contentType := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(fileName), ".png") {
		contentType = "image/png"
	}
	c.Header("Content-Type", contentType)
	c.File(file.Name())
}
