package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. The session gate collapses all three into one
// caller-visible rejection; the distinction stays available for
// diagnostics and tests.
var (
	ErrTokenMalformed    = errors.New("session token malformed")
	ErrTokenBadSignature = errors.New("session token signature mismatch")
	ErrTokenExpired      = errors.New("session token expired")
)

// TokenService issues and verifies HMAC-SHA256 signed session tokens.
// Verification is a pure function of (token, key, current time): no
// store lookup happens here, so forged or stale tokens are rejected
// before the database is ever consulted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token naming userID, expiring after the
// configured session TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithTTL(userID, s.ttl)
}

// IssueWithTTL is Issue with an explicit lifetime. A non-positive ttl
// produces an already-expired token.
func (s *TokenService) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded user id. No side effects.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
