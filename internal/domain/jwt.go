package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// FitBuddyClaims are the access token claims. Subject carries the username too.
type FitBuddyClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
