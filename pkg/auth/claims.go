package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminTokenPayload captures the data available when minting a back-office JWT.
type AdminTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	JTI     string
}

// AdminClaims represents the typed JWT issued to back-office users.
type AdminClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}
