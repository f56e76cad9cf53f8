package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims carried by a bearer token.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// Identity is a resolved authenticated principal. It is passed explicitly
// into every service call that needs authorization; services never read
// credentials or ambient session state themselves.
type Identity struct {
	ID   uuid.UUID
	Role string
}

// Identity returns the identity described by the token claims.
func (c *TokenClaims) Identity() Identity {
	return Identity{ID: c.UserID, Role: c.Role}
}
