package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"quizblog/gateway/internal/models"
)

// Claims mirrors the tokens issued by the users service. The jti is used for
// revocation lookups.
type Claims struct {
	UserID string `json:"_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() *models.Identity {
	return &models.Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   c.Role,
	}
}
