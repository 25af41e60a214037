package auth

import (
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Principal identifies the signed-in account.
type Principal struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  enums.UserRole `json:"role"`
}

// LoginResponse contains the access token and the authenticated principal.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Principal `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// MeResponse is the principal plus its managed account record, when there is one.
type MeResponse struct {
	Principal
	Account *store.User `json:"account,omitempty"`
}
