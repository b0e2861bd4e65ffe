package ports

import (
	"context"

	"github.com/cleanbook/credential-service/internal/core/domain"
)

// UserDirectory defines the account store used by the auth service.
// Implementations must make Create's existence check and insert atomic.
type UserDirectory interface {
	// Create stores a new account and assigns its ID. Returns
	// domain.ErrUserExists when the normalized email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
