// Package auth verifies the platform's HS256 access tokens and exposes the
// authenticated actor to handlers. Login and account management live in the
// platform's auth service; this package only shares its signing secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the actor's platform role.
type Role string

const (
	RoleClinician Role = "clinician"
	RoleCaregiver Role = "caregiver"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClinician, RoleCaregiver, RoleAdmin:
		return true
	}
	return false
}

const issuer = "alzheon"

// Claims is the access-token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"usr,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the actor has the admin role.
func (c *Claims) IsAdmin() bool {
	return Role(c.Role) == RoleAdmin
}

// TokenService signs and validates access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a service using secret for HS256 and ttl for
// issued tokens.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token for userID with role. The server uses it only for the
// `alzheon token` development command and tests.
func (s *TokenService) Issue(userID, username string, role Role) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses raw and returns its claims. Expired tokens, foreign
// issuers and non-HS256 algorithms are rejected.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
