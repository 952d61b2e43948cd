package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher performs one-way hashing and verification of credentials.
// It is injected into handlers and commands rather than used as a package
// global so tests can construct it with a cheaper cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the bcrypt default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// NewPasswordHasherWithCost returns a hasher with an explicit bcrypt cost.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the plain-text password.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
