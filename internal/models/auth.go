package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	School      *School   `json:"school,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID              string   `json:"id"`
	SchoolID        string   `json:"school_id"`
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	Role            UserRole `json:"role"`
	AssignedClasses []string `json:"assigned_classes"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID          string   `json:"user_id"`
	SchoolID        string   `json:"school_id"`
	Role            UserRole `json:"role"`
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	AssignedClasses []string `json:"assigned_classes,omitempty"`
	jwt.RegisteredClaims
}

// CanAccessClass applies the class access rule to the token holder.
func (c *JWTClaims) CanAccessClass(className string) bool {
	if c == nil {
		return false
	}
	return canAccessClass(c.Role, c.AssignedClasses, className)
}
