package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

type UserAuthProvider struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Provider       string    `json:"provider"`
	ProviderUserID *string   `json:"provider_user_id"`
	ProviderEmail  *string   `json:"provider_email"`
	CreatedAt      time.Time `json:"created_at"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
