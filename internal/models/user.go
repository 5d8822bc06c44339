package models

// UserRole represents the two access levels of the system. The stored values
// are the workbook's Korean labels.
type UserRole string

const (
	RoleRequester UserRole = "신청자"
	RoleAdmin     UserRole = "관리자"
)

// User represents an account row in the user sheet.
type User struct {
	ID           string   `json:"userId"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	EmployeeCode string   `json:"employeeCode"`
	Team         string   `json:"team"`
	Region       string   `json:"region"`
	Role         UserRole `json:"role"`
	Active       bool     `json:"active"`
}

// UserUpdate carries partially updated account fields. Accounts are never
// deleted; deactivation flips Active instead.
type UserUpdate struct {
	Name         *string
	EmployeeCode *string
	Team         *string
	Region       *string
	Role         *UserRole
	Active       *bool
	PasswordHash *string
}
