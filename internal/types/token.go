package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Principal is the caller resolved from the request. The zero value is an anonymous caller.
type Principal struct {
	UserID    uint
	Username  string
	// Role is the role at token issue time. Permission checks read the
	// current role from the users table.
	Role      string
	TokenID   string
	// ExpiresAt is when the presented token stops being valid
	ExpiresAt time.Time
}

// PrincipalFromClaims builds the principal carried by validated claims
func PrincipalFromClaims(c *TokenClaims) Principal {
	p := Principal{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
		TokenID:  c.ID,
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}

// Authenticated reports whether the principal carries a user
func (p Principal) Authenticated() bool {
	return p.UserID != 0
}
