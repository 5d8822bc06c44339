package dto

import "github.com/fieldworks/parts-order-api/internal/models"

// CreateUserInput is the admin account-creation payload. When Password is
// empty the configured default is applied.
type CreateUserInput struct {
	UserID       string          `json:"userId" binding:"required" validate:"required"`
	Name         string          `json:"name" binding:"required" validate:"required"`
	EmployeeCode string          `json:"employeeCode"`
	Team         string          `json:"team"`
	Region       string          `json:"region"`
	Role         models.UserRole `json:"role"`
	Password     string          `json:"password"`
}

// UpdateUserInput carries partial account fields; nil fields are untouched.
type UpdateUserInput struct {
	Name         *string          `json:"name"`
	EmployeeCode *string          `json:"employeeCode"`
	Team         *string          `json:"team"`
	Region       *string          `json:"region"`
	Role         *models.UserRole `json:"role"`
	Active       *bool            `json:"active"`
	Password     *string          `json:"password"`
}

// CreateDeliveryPlaceInput is the admin payload for a new destination.
type CreateDeliveryPlaceInput struct {
	Name    string `json:"name" binding:"required" validate:"required"`
	Team    string `json:"team" binding:"required" validate:"required"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Manager string `json:"manager"`
	Remarks string `json:"remarks"`
}

// UpdateDeliveryPlaceInput carries partial destination fields.
type UpdateDeliveryPlaceInput struct {
	Name    *string `json:"name"`
	Team    *string `json:"team"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
	Manager *string `json:"manager"`
	Active  *bool   `json:"active"`
	Remarks *string `json:"remarks"`
}

// ImportResult summarizes one CSV import run. Kind names the detected sheet
// ("users" or "deliveryPlaces"); row-level failures land in Errors without
// aborting the run.
type ImportResult struct {
	Kind    string   `json:"kind"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
