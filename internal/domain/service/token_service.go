package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims defines the custom claims carried by the bearer tokens.
// UserID, Email and Username are the identity payload; the registered
// claims (sub, iat, exp) are rebuilt on every sign and never copied from
// a previously verified token.
type TokenClaims struct {
	UserID   uuid.UUID `json:"uid"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for signing and verifying bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Sign creates a fresh token carrying the given identity payload plus
	// newly issued registered claims.
	Sign(userID uuid.UUID, email, username string) (string, error)

	// Verify checks the signature and expiry of a token string and returns
	// its claims. Any payload that verifies was produced by a prior Sign
	// call with the same secret.
	Verify(tokenString string) (*TokenClaims, error)
}
