// Package auth holds the token signer and password hasher used by the
// login flow and the auth gate.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Bidon15/piedpiper/internal/pkg/ulid"
)

var (
	// ErrInvalidToken is returned for malformed, tampered or wrongly
	// signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned once exp has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the JWT payload issued at login.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Name   string `json:"name"`
}

// TokenSigner issues and verifies bearer tokens.
type TokenSigner interface {
	Sign(userID, name string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

// JWTSigner signs HS256 tokens with a shared secret.
type JWTSigner struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTSigner creates a signer whose tokens live for expiry.
func NewJWTSigner(secret string, expiry time.Duration) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Sign issues a token for the user. Every token carries a fresh jti, so two
// logins in the same second still yield distinct tokens.
func (s *JWTSigner) Sign(userID, name string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.New(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Name:   name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims.
func (s *JWTSigner) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
