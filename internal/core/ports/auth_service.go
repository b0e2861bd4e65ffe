package ports

import (
	"context"

	"github.com/cleanbook/credential-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, claims *domain.Claims) (*domain.User, error)
}
