// Package auth issues and validates admin session tokens. A token is
// handed out by a successful login and authorizes every mutating route.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeAdmin is the only scope issued; it authorizes content mutation.
const ScopeAdmin = "folio.admin"

// Subject is the subject of every token. There is exactly one admin.
const Subject = "admin"

// DefaultTTL is used when a Manager is built with a non-positive TTL.
const DefaultTTL = 12 * time.Hour

// ErrInvalidToken wraps every validation failure.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims extends the standard JWT claims with a scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// Token is a signed session token and its expiry.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager signs and validates JWT tokens using HS256.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a manager with the given HMAC secret, issuer and
// token lifetime.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateSecret returns a random 32-byte hex string for use as a JWT secret.
func GenerateSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Issue signs a new admin token.
func (m *Manager) Issue() (Token, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   Subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Scope: ScopeAdmin,
	})
	s, err := tok.SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return Token{Token: s, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Validate parses and validates a token. Returns ErrInvalidToken if the
// token is malformed, expired, or has the wrong scope or subject.
func (m *Manager) Validate(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}
	if claims.Scope != ScopeAdmin {
		return fmt.Errorf("%w: wrong scope %q", ErrInvalidToken, claims.Scope)
	}
	if claims.Subject != Subject {
		return fmt.Errorf("%w: wrong subject %q", ErrInvalidToken, claims.Subject)
	}
	return nil
}
