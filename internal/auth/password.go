package auth

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes and verifies hunt passwords. The produced hash is an
// opaque string; plaintext never reaches the store. A zero Cost uses the
// bcrypt default.
type BcryptHasher struct {
	Cost int
}

// Hash derives a hash string from the plaintext password.
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash.
func (h BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
