package ports

// PasswordHasher is a one-way, salted password transform.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. A malformed digest is
	// a mismatch, never an error.
	Verify(password, digest string) bool
	Algorithm() string
}
