// Package session issues and validates the JWTs that identify which power a
// connected client is allowed to order.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

// Claims holds the JWT payload: which power this session may issue orders for.
type Claims struct {
	Power string `json:"power"`
	jwt.RegisteredClaims
}

// Manager issues and validates power-identity tokens.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a Manager with the given secret. Tokens last one game
// day's worth of real time by default, long enough to cover a Spring/Fall
// order window.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), expiry: 24 * time.Hour}
}

// IssueToken creates a token scoping the bearer to power.
func (m *Manager) IssueToken(power string) (string, error) {
	claims := &Claims{
		Power: power,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   power,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *Manager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
