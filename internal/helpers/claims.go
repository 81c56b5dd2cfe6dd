package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the authenticated principal carried in the access token and on
// the request context.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

func (c *Claims) IsOwner(userID string) bool {
	return c.UserID == userID
}

func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}
