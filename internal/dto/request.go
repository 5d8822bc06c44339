package dto

import (
	"github.com/fieldworks/parts-order-api/internal/models"
)

// CreateRequestInput is the submission payload. PhotoBase64 accepts a bare
// base64 string or a full data URL.
type CreateRequestInput struct {
	ItemName      string `json:"itemName"`
	ModelName     string `json:"modelName"`
	SerialNo      string `json:"serialNo"`
	Quantity      int    `json:"quantity"`
	AssetNo       string `json:"assetNo"`
	DeliveryPlace string `json:"deliveryPlace"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	Remarks       string `json:"remarks"`
	Region        string `json:"region"`
	PhotoBase64   string `json:"photoBase64"`
}

// CreateRequestResult is the creation outcome. Duplicate submissions are a
// distinguished outcome carrying the open request's number, not an error.
type CreateRequestResult struct {
	RequestNo          string `json:"requestNo,omitempty"`
	Duplicate          bool   `json:"duplicate,omitempty"`
	DuplicateRequestNo string `json:"duplicateRequestNo,omitempty"`
	Message            string `json:"message"`
}

// UpdateStatusInput drives a status transition. Pointer fields are applied
// only when present.
type UpdateStatusInput struct {
	Status               models.RequestStatus `json:"status" binding:"required"`
	Remarks              *string              `json:"remarks"`
	Handler              *string              `json:"handler"`
	ExpectedDeliveryDate *string              `json:"expectedDeliveryDate"`
}

// MyRequest augments a request with the affordances the requester UI needs.
type MyRequest struct {
	models.Request
	CanCancel         bool `json:"canCancel"`
	CanConfirmReceipt bool `json:"canConfirmReceipt"`
}
