package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cleanbook/credential-service/internal/core/domain"
	"github.com/cleanbook/credential-service/internal/core/ports"
)

// AuthService implements registration, login and current-user lookup.
type AuthService struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
	issuer    ports.TokenIssuer
	log       zerolog.Logger

	// decoy is verified against when the email is unknown, so a login for a
	// missing account costs the same as a wrong password.
	decoyOnce sync.Once
	decoy     string
}

func NewAuthService(directory ports.UserDirectory, hasher ports.PasswordHasher, issuer ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{directory: directory, hasher: hasher, issuer: issuer, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.directory.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.NormalizeRole(role),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Info().Str("email", email).Msg("registration rejected: email taken")
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login returns a signed token for valid credentials. Unknown email, wrong
// password and empty input are all reported as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.decoyDigest())
			s.log.Debug().Msg("login failed")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Debug().Str("user_id", user.ID).Msg("login failed")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// CurrentUser re-reads the account named by verified claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *domain.Claims) (*domain.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("decoy-password-never-matches")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare decoy digest")
			return
		}
		s.decoy = hash
	})
	return s.decoy
}
