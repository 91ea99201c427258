package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/db/models"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse carries the bearer token for back-office calls.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Admin       AdminDTO  `json:"admin"`
}

func fromModel(a *models.Admin) AdminDTO {
	return AdminDTO{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		LastLoginAt: a.LastLoginAt,
	}
}
