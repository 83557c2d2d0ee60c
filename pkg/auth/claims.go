package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	RoleID   uuid.UUID
	RoleType enums.RoleType
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	RoleID   uuid.UUID      `json:"role_id"`
	RoleType enums.RoleType `json:"role_type"`
	jwt.RegisteredClaims
}
