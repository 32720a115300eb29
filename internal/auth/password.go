package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used for stored passwords.
	DefaultIterations = 310000
	// KeyLength is the length in bytes of every derived password hash.
	KeyLength = 32
	// SaltLength is the length in bytes of generated salts.
	SaltLength = 16
)

// Hasher derives and verifies PBKDF2-SHA256 password hashes. Derivations are
// CPU bound, so at most `workers` of them run at the same time.
type Hasher struct {
	iterations int
	sem        chan struct{}
}

func NewHasher(iterations, workers int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Hasher{
		iterations: iterations,
		sem:        make(chan struct{}, workers),
	}
}

// NewSalt returns SaltLength random bytes.
func (h *Hasher) NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Derive computes the password hash for password and salt. It waits for a
// free worker slot and gives up if ctx is done first.
func (h *Hasher) Derive(ctx context.Context, password string, salt []byte) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	}
	return pbkdf2.Key([]byte(password), salt, h.iterations, KeyLength, sha256.New), nil
}

// Verify reports whether password matches the stored hash. The comparison
// runs in constant time.
func (h *Hasher) Verify(ctx context.Context, password string, salt, stored []byte) (bool, error) {
	derived, err := h.Derive(ctx, password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(derived, stored) == 1, nil
}
