package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the JWT token claims accepted on mutating routes
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type"` // "access" only for now
	jwt.RegisteredClaims
}
