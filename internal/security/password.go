package security

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the one-way hashing capability used for passwords. It is
// injected rather than called as package functions so tests can swap in a
// cheap implementation.
type PasswordHasher interface {
	// Hash returns a one-way digest of the plaintext
	Hash(plain string) (string, error)
	// Compare reports whether the plaintext matches the digest
	Compare(plain, digest string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost of 0
// falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt digest of the plaintext
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether the plaintext matches the bcrypt digest
func (h *BcryptHasher) Compare(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
