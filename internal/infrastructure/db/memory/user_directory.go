// Package memory provides the process-lifetime account store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cleanbook/credential-service/internal/core/domain"
)

// UserDirectory keeps accounts in memory, indexed by ID and by normalized
// email. It is safe for concurrent use.
type UserDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // normalized email -> ID
	now     func() time.Time
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts user under a fresh ID. The uniqueness check and the insert
// happen under one write lock.
func (d *UserDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	key := domain.NormalizeEmail(user.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[key]; exists {
		return nil, domain.ErrUserExists
	}

	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = d.now()
	}

	d.byID[stored.ID] = stored
	d.byEmail[key] = stored.ID

	return cloneUser(stored), nil
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(d.byID[id]), nil
}

func (d *UserDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// Len reports the number of stored accounts.
func (d *UserDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
