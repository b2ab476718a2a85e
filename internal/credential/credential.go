// Package credential salts and hashes passwords with PBKDF2-HMAC-SHA256.
package credential

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"runtime"
	"unicode/utf8"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"

	"github.com/placefinder/placefinder/internal/apperr"
)

const (
	saltBytes  = 16
	iterations = 10000
	keyLength  = sha256.Size
)

var (
	ErrEmptyPassword   = oops.Code(apperr.CodeValidationRejected).Errorf("password cannot be empty")
	ErrInvalidPassword = oops.Code(apperr.CodeValidationRejected).Errorf("password must be valid UTF-8")
)

// GenerateSalt returns 16 random bytes, hex-encoded.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code(apperr.CodeInternalFailure).With("operation", "generate salt").Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword derives the hex-encoded key for plaintext under salt. The salt
// is used in its hex text form, so stored pairs verify across rewrites.
func HashPassword(plaintext, salt string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if !utf8.ValidString(plaintext) {
		return "", ErrInvalidPassword
	}
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key), nil
}

// Matches recomputes the hash and compares it in constant time.
func Matches(plaintext, salt, hash string) bool {
	computed, err := HashPassword(plaintext, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// Hasher bounds how many derivations run at once so a burst of logins
// cannot starve request handling of CPU.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher builds a Hasher allowing limit concurrent derivations. A
// non-positive limit defaults to GOMAXPROCS.
func NewHasher(limit int) *Hasher {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(limit))}
}

// Derive generates a fresh salt and the matching hash. Both are meant to be
// stored together.
func (h *Hasher) Derive(ctx context.Context, plaintext string) (salt, hash string, err error) {
	if err := h.acquire(ctx); err != nil {
		return "", "", err
	}
	defer h.sem.Release(1)

	salt, err = GenerateSalt()
	if err != nil {
		return "", "", err
	}
	hash, err = HashPassword(plaintext, salt)
	if err != nil {
		return "", "", err
	}
	return salt, hash, nil
}

// Verify reports whether plaintext hashes to hash under salt.
func (h *Hasher) Verify(ctx context.Context, plaintext, salt, hash string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.sem.Release(1)
	return Matches(plaintext, salt, hash), nil
}

func (h *Hasher) acquire(ctx context.Context) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return oops.Code(apperr.CodeInternalFailure).With("operation", "acquire hashing slot").Wrap(err)
	}
	return nil
}
