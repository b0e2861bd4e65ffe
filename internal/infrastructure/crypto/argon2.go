package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2SaltLen = 16

	defaultArgon2Time   = 1
	defaultArgon2Memory = 64 * 1024

	// Upper bounds for parameters, both configured and read back from a
	// stored digest. Anything above them is rejected as malformed.
	maxArgon2Time   = 16
	maxArgon2Memory = 4 * defaultArgon2Memory
	maxArgon2KeyLen = 128
)

// Argon2Hasher hashes passwords with argon2id and encodes the result in PHC
// form: $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// Argon2Option tunes the work factor.
type Argon2Option func(*Argon2Hasher)

func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) {
		if t > 0 {
			h.time = min(t, maxArgon2Time)
		}
	}
}

// WithArgon2Memory sets the memory cost in KiB, capped at 256 MiB.
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) {
		if m > 0 {
			h.memory = min(m, maxArgon2Memory)
		}
	}
}

func WithArgon2Threads(p uint8) Argon2Option {
	return func(h *Argon2Hasher) {
		if p > 0 {
			h.threads = p
		}
	}
}

func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{time: defaultArgon2Time, memory: defaultArgon2Memory, threads: 4, keyLen: 32}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2 salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(password, digest string) bool {
	p, salt, key, ok := decodeArgon2(digest)
	if !ok {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(got, key) == 1
}

func (h *Argon2Hasher) Algorithm() string { return AlgorithmArgon2id }

// decodeArgon2 parses a PHC digest. Parameters come from the digest, not the
// hasher, so digests survive a change of work factor.
func decodeArgon2(digest string) (params Argon2Hasher, salt, key []byte, ok bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != AlgorithmArgon2id {
		return params, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return params, nil, nil, false
	}
	if params.memory == 0 || params.time == 0 || params.threads == 0 {
		return params, nil, nil, false
	}
	if params.memory > maxArgon2Memory || params.time > maxArgon2Time {
		return params, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return params, nil, nil, false
	}
	return params, salt, key, true
}
