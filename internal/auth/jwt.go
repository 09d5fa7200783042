// Package auth provides session tokens, password hashing, and the OAuth
// providers for the login flow.
//
// SESSION FLOW:
//  1. The user signs in — either through an OAuth provider (google,
//     facebook) or with email+password.
//  2. The server issues a JWT access token and stores it in an HttpOnly
//     cookie.
//  3. On subsequent requests, middleware reads the cookie, validates the
//     signature and expiry, and puts the user id into the request context.
//
// The JWT is stateless: the user id lives in the signed "sub" claim, so
// validation needs no database lookup — just the HMAC secret.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is checked on every validation so tokens minted by other
// apps sharing a secret (it happens) are rejected.
const tokenIssuer = "codechat"

// TokenService signs and verifies JWT access tokens with an HMAC secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of randomness in production (openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user id travels in Subject,
// formatted as a base-10 string because JWT subjects are strings.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed access token for userID with the default
// 15-minute lifetime.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, 15*time.Minute)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// and anywhere a longer-lived token is warranted.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the user id from
// its subject claim.
//
// WithValidMethods pins the algorithm to HS256 — without it, a token
// claiming alg "none" (or an asymmetric algorithm) could slip through the
// keyfunc. This is the classic algorithm-confusion attack.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject is not a valid user id")
	}

	return userID, nil
}
