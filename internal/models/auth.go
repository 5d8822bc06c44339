package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims embeds the identity attributes carried by an access token.
type JWTClaims struct {
	UserID       string   `json:"userId"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	Team         string   `json:"team"`
	EmployeeCode string   `json:"employeeCode"`
	Region       string   `json:"region"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload.
type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// UserInfo is the public identity slice returned after login.
type UserInfo struct {
	UserID       string   `json:"userId"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	Team         string   `json:"team"`
	EmployeeCode string   `json:"employeeCode"`
	Region       string   `json:"region"`
}

// LoginResponse carries the issued token and a role-based redirect hint.
type LoginResponse struct {
	Token       string    `json:"token"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	RedirectURL string    `json:"redirectUrl"`
	User        UserInfo  `json:"user"`
}

// ChangePasswordRequest is the change-password payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" binding:"required,min=4"`
}
