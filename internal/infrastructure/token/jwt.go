// Package token issues and verifies HS256 bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cleanbook/credential-service/internal/core/domain"
)

const (
	// TTL is the fixed validity window of every issued token.
	TTL = 15 * time.Minute

	Issuer = "credential-service"
)

var errEmptySecret = errors.New("token: signing secret is empty")

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWT signs and verifies tokens with a single process-wide secret.
type JWT struct {
	secret []byte
	now    func() time.Time
}

// Option configures a JWT.
type Option func(*JWT)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		if now != nil {
			j.now = now
		}
	}
}

func NewJWT(secret string, opts ...Option) (*JWT, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	j := &JWT{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Issue returns a signed token for user, valid for TTL from now.
func (j *JWT) Issue(user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("token: user without id")
	}

	now := j.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		Email: user.Email,
		Role:  string(user.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry. Every failure collapses to
// domain.ErrInvalidToken; the cause is kept in the chain for logging only.
func (j *JWT) Verify(tokenString string) (*domain.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(j.now),
	)

	var claims accessClaims
	tkn, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
