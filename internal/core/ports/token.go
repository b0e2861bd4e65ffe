package ports

import "github.com/cleanbook/credential-service/internal/core/domain"

// TokenIssuer mints signed, time-bounded bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a bearer token's signature and expiry. Every failure
// is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
