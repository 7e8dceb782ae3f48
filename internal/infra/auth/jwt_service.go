package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authd/config"
	"authd/internal/domain/service"
)

const defaultTokenTTL = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing tokens.
	ttl    time.Duration // Time-to-live for issued tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := defaultTokenTTL
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: cfg.SecretKey.Token,
		ttl:    ttl,
	}, nil
}

// Sign creates a fresh token carrying the identity payload. The registered
// claims are always issued anew; nothing is copied from previous tokens.
func (s *jwtService) Sign(userID uuid.UUID, email, username string) (string, error) {
	now := time.Now()
	claims := &service.TokenClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature and expiry of a token string and returns its claims.
func (s *jwtService) Verify(tokenString string) (*service.TokenClaims, error) {
	claims := &service.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}
