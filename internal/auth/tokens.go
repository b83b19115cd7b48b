// Package auth issues and verifies session tokens and carries the
// authenticated identity through the request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/domain"
)

// minKeyLen is the minimum HMAC signing key length in bytes. Shorter
// keys make HS256 tokens practical to brute-force.
const minKeyLen = 32

// Claims are the payload of a session token.
type Claims struct {
	UserID int64  `json:"id,string"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses signed session tokens.
type TokenManager struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	skew     time.Duration
}

// NewTokenManager creates a token manager from auth configuration.
// It fails when the signing key is too short to be safe.
func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if len(cfg.SigningKey) < minKeyLen {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", minKeyLen, len(cfg.SigningKey))
	}

	return &TokenManager{
		key:      []byte(cfg.SigningKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL(),
		skew:     cfg.ClockSkew,
	}, nil
}

// Issue creates a signed token for the user and returns it together
// with its expiry time.
func (m *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Parse verifies the token signature, issuer, audience and expiry, and
// returns its claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithLeeway(m.skew),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTokenRevoked, err)
	}

	if claims.UserID == 0 {
		return nil, errors.New("token has no user ID")
	}

	return claims, nil
}
