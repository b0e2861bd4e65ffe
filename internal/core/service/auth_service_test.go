package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleanbook/credential-service/internal/core/domain"
	"github.com/cleanbook/credential-service/internal/infrastructure/crypto"
	"github.com/cleanbook/credential-service/internal/infrastructure/token"
)

type stubDirectory struct {
	users     map[string]*domain.User // keyed by normalized email
	createErr error
	findErr   error
	nextID    int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (d *stubDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	key := domain.NormalizeEmail(user.Email)
	if _, exists := d.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	d.nextID++
	copy := cloneUser(user)
	copy.ID = "user-" + strings.Repeat("x", d.nextID)
	d.users[key] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if d.findErr != nil {
		return nil, d.findErr
	}
	u, ok := d.users[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	if d.findErr != nil {
		return nil, d.findErr
	}
	for _, u := range d.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type failingHasher struct{ *crypto.BcryptHasher }

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

type failingIssuer struct{}

func (failingIssuer) Issue(*domain.User) (string, error) { return "", errors.New("sign failed") }

const testSecret = "secret"

func newTestService(t *testing.T, dir *stubDirectory) (*AuthService, *token.JWT) {
	t.Helper()
	jwtSvc, err := token.NewJWT(testSecret)
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}
	return NewAuthService(dir, crypto.NewBcryptHasher(bcrypt.MinCost), jwtSvc, zerolog.Nop()), jwtSvc
}

func TestAuthService_Register_Success(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	user, err := svc.Register(context.Background(), "a@x.com", "pw123", "cleaner")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected ID to be assigned")
	}
	if user.PasswordHash == "pw123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCleaner {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_StoresEmailAsProvided(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	user, err := svc.Register(context.Background(), " Dana@Example.com ", "pw", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != " Dana@Example.com " {
		t.Fatalf("expected email stored verbatim, got %q", user.Email)
	}
	if _, err := svc.Register(context.Background(), "dana@example.com", "pw", ""); err != domain.ErrUserExists {
		t.Fatalf("expected normalised duplicate to be rejected, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "DANA@example.com", "pw"); err != nil {
		t.Fatalf("login with normalised email failed: %v", err)
	}
}

func TestAuthService_Register_DefaultsRole(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	for i, hint := range []string{"", "admin", "CUSTOMER"} {
		email := strings.Repeat("r", i+1) + "@x.com"
		user, err := svc.Register(context.Background(), email, "pw", hint)
		if err != nil {
			t.Fatalf("register %q: %v", hint, err)
		}
		if user.Role != domain.RoleCustomer {
			t.Fatalf("role hint %q: expected customer, got %s", hint, user.Role)
		}
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	if _, err := svc.Register(context.Background(), "", "pass", ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "   ", "pass", ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for blank email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "", ""); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if len(dir.users) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestAuthService_Register_DuplicateAnyCase(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	if _, err := svc.Register(context.Background(), "A@x.com", "pass", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@x.com", "pass2", ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	dir := newStubDirectory()
	jwtSvc, _ := token.NewJWT(testSecret)
	svc := NewAuthService(dir, failingHasher{crypto.NewBcryptHasher(bcrypt.MinCost)}, jwtSvc, zerolog.Nop())

	_, err := svc.Register(context.Background(), "a@x.com", "pw", "")
	if err == nil || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	dir := newStubDirectory()
	dir.createErr = errors.New("boom")
	svc, _ := newTestService(t, dir)

	_, err := svc.Register(context.Background(), "a@x.com", "pw", "")
	if !errors.Is(err, dir.createErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	dir := newStubDirectory()
	svc, jwtSvc := newTestService(t, dir)

	registered, err := svc.Register(context.Background(), "Carol@Example.com", "s3cret", "cleaner")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tok, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := jwtSvc.Verify(tok)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Email != "Carol@Example.com" {
		t.Fatalf("expected case-preserved email, got %q", claims.Email)
	}
	if claims.Subject != registered.ID || claims.Role != domain.RoleCleaner {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_UndifferentiatedFailures(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass", "")

	cases := []struct{ email, password string }{
		{"dave@example.com", "badpass"},
		{"ghost@example.com", "goodpass"},
		{"", "goodpass"},
		{"dave@example.com", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Login(context.Background(), tc.email, tc.password); err != domain.ErrInvalidCredentials {
			t.Fatalf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Login_IssueFailure(t *testing.T) {
	dir := newStubDirectory()
	svc := NewAuthService(dir, crypto.NewBcryptHasher(bcrypt.MinCost), failingIssuer{}, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "erin@example.com", "pw", "")
	_, _, err := svc.Login(context.Background(), "erin@example.com", "pw")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	dir := newStubDirectory()
	svc, _ := newTestService(t, dir)

	registered, _ := svc.Register(context.Background(), "frank@example.com", "pw", "")

	user, err := svc.CurrentUser(context.Background(), &domain.Claims{Subject: registered.ID})
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "frank@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), &domain.Claims{Subject: "gone"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), nil); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for nil claims, got %v", err)
	}
}
