// Package password hashes and verifies user passwords.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every new digest.
const Cost = bcrypt.DefaultCost

// MaxLength is the longest plaintext bcrypt reads, in bytes. Longer input
// would be truncated, so it is refused by both Hash and Verify.
const MaxLength = 72

// Hasher hashes plaintext passwords and checks them against stored digests.
type Hasher interface {
	// Hash returns a salted digest that embeds its own salt and cost.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. A malformed digest is
	// reported as a mismatch.
	Verify(plaintext, digest string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: Cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if digest == "" || len(plaintext) > MaxLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
