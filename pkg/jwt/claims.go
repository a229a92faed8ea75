package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT custom claims
type Claims struct {
	Email      string `json:"email"`
	UniqueCode string `json:"unique_code"`
	jwt.RegisteredClaims
}
