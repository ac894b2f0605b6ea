// Package auth issues and validates the HS256 access tokens that identify
// callers to the HTTP layer.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventup/eventup/internal/model"
)

// Principal is the authenticated caller extracted from a valid token.
type Principal struct {
	UserID string
	Email  string
	Role   model.Role
}

// IsAdmin reports whether the principal may use admin-only operations.
func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// Claims is the JWT payload.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and parses access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a token manager.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Sign issues an access token for the user.
func (m *Manager) Sign(u *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its principal.
func (m *Manager) Parse(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("%w: invalid token", model.ErrUnauthorized)
	}
	return Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   model.Role(claims.Role),
	}, nil
}
