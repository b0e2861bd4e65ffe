package middleware

import (
	"context"

	"github.com/cleanbook/credential-service/internal/core/domain"
)

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying verified token claims.
func WithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by Auth, if any.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*domain.Claims)
	return claims, ok && claims != nil
}
